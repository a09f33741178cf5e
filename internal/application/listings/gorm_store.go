package listings

import (
	"context"
	"errors"
	"fmt"

	"agrowaste-backend/internal/domain"
	"agrowaste-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore reads listings from Postgres (SQLite in tests).
type GormStore struct {
	DB *gorm.DB
}

func (s *GormStore) Find(ctx context.Context, q Query) ([]domain.Listing, error) {
	db := s.DB.WithContext(ctx).Model(&domain.Listing{})
	if q.CropType != "" {
		db = db.Where("crop_type = ?", q.CropType)
	}
	if q.WasteType != "" {
		db = db.Where("waste_type = ?", q.WasteType)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.Pincode != "" {
		db = db.Where("pincode = ?", q.Pincode)
	}
	if q.State != "" {
		db = db.Where("state = ?", q.State)
	}
	if q.District != "" {
		db = db.Where("district = ?", q.District)
	}
	if q.ProducerID != nil {
		db = db.Where("producer_id = ?", *q.ProducerID)
	}
	if q.CreatedFrom != nil {
		db = db.Where("created_at >= ?", *q.CreatedFrom)
	}
	if q.CreatedBefore != nil {
		db = db.Where("created_at < ?", *q.CreatedBefore)
	}
	if q.Box != nil {
		db = db.Where("latitude BETWEEN ? AND ?", q.Box.SW.Latitude, q.Box.NE.Latitude)
		if q.Box.CrossesAntimeridian() {
			db = db.Where("(longitude >= ? OR longitude <= ?)", q.Box.SW.Longitude, q.Box.NE.Longitude)
		} else {
			db = db.Where("longitude BETWEEN ? AND ?", q.Box.SW.Longitude, q.Box.NE.Longitude)
		}
	}
	if q.WithProducer {
		db = db.Preload("Producer", selectContact)
	}

	var out []domain.Listing
	if err := db.Order("created_at ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	return out, nil
}

func (s *GormStore) Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	var l domain.Listing
	err := s.DB.WithContext(ctx).Preload("Producer", selectContact).Where("id = ?", id).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("listing")
		}
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return &l, nil
}

func (s *GormStore) Create(ctx context.Context, l *domain.Listing) error {
	if err := s.DB.WithContext(ctx).Omit("Producer").Create(l).Error; err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

// selectContact limits the producer preload to the public contact columns.
func selectContact(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email", "phone")
}
