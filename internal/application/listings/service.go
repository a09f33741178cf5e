package listings

import (
	"context"
	"strings"
	"time"

	"agrowaste-backend/internal/domain"
	"agrowaste-backend/internal/pkg/apperr"
	"agrowaste-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Invalidator drops derived results after a write. The analytics cache implements it.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Service struct {
	Store       Store
	Invalidator Invalidator
	Timeout     time.Duration
}

type LocationInput struct {
	Address   string   `json:"address"`
	District  string   `json:"district"`
	State     string   `json:"state"`
	Pincode   string   `json:"pincode" validate:"omitempty,pincode"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
}

type CreateInput struct {
	ProducerID    uuid.UUID        `json:"producerId" validate:"required"`
	CropType      string           `json:"cropType" validate:"required"`
	WasteType     domain.WasteType `json:"wasteType" validate:"required,oneof=straw husk leaves stalks other"`
	Quantity      float64          `json:"quantity" validate:"gte=0"`
	Unit          domain.Unit      `json:"unit" validate:"omitempty,oneof=kg ton quintal"`
	Price         float64          `json:"price" validate:"gte=0"`
	AvailableFrom time.Time        `json:"availableFrom" validate:"required"`
	Location      LocationInput    `json:"location"`
	Images        []string         `json:"images"`
	Status        domain.Status    `json:"status" validate:"omitempty,oneof=available booked sold cancelled"`
	Description   string           `json:"description"`
}

func (s *Service) timeout() time.Duration {
	if s.Timeout <= 0 {
		return 10 * time.Second
	}
	return s.Timeout
}

// Create validates and stores a new listing, then invalidates cached analytics.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Listing, error) {
	in.CropType = strings.TrimSpace(in.CropType)
	if err := validation.Struct(in); err != nil {
		return nil, apperr.InvalidArgument("%s", err.Error())
	}
	if (in.Location.Longitude == nil) != (in.Location.Latitude == nil) {
		return nil, apperr.InvalidArgument("location needs both longitude and latitude")
	}
	unit := in.Unit
	if unit == "" {
		unit = domain.UnitKg
	}
	status := in.Status
	if status == "" {
		status = domain.StatusAvailable
	}
	l := &domain.Listing{
		ProducerID:    in.ProducerID,
		CropType:      in.CropType,
		WasteType:     in.WasteType,
		Quantity:      in.Quantity,
		Unit:          unit,
		Price:         in.Price,
		AvailableFrom: in.AvailableFrom,
		Location: domain.Location{
			Address:   strings.TrimSpace(in.Location.Address),
			District:  strings.TrimSpace(in.Location.District),
			State:     strings.TrimSpace(in.Location.State),
			Pincode:   in.Location.Pincode,
			Longitude: in.Location.Longitude,
			Latitude:  in.Location.Latitude,
		},
		Images:      in.Images,
		Status:      status,
		Description: in.Description,
	}
	if l.Images == nil {
		l.Images = []string{}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()
	if err := s.Store.Create(ctx, l); err != nil {
		return nil, apperr.FromStore(ctx, err)
	}
	if s.Invalidator != nil {
		if err := s.Invalidator.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Str("listing_id", l.ID.String()).Msg("analytics cache invalidation failed")
		}
	}
	return l, nil
}

// Get returns one listing with its producer contact.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	if id == uuid.Nil {
		return nil, apperr.InvalidQuery("listing id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()
	l, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(ctx, err)
	}
	return l, nil
}

// ListByProducer returns a producer's listings, newest first.
func (s *Service) ListByProducer(ctx context.Context, producerID uuid.UUID) ([]domain.Listing, error) {
	if producerID == uuid.Nil {
		return nil, apperr.InvalidQuery("producer id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()
	ls, err := s.Store.Find(ctx, Query{ProducerID: &producerID})
	if err != nil {
		return nil, apperr.FromStore(ctx, err)
	}
	out := make([]domain.Listing, len(ls))
	for i := range ls {
		out[len(ls)-1-i] = ls[i]
	}
	return out, nil
}
