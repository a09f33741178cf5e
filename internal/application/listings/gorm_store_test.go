package listings

import (
	"context"
	"testing"
	"time"

	"agrowaste-backend/internal/domain"
	"agrowaste-backend/internal/pkg/apperr"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupGormStore(t *testing.T) (*GormStore, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Producer{}, &domain.Listing{}))
	return &GormStore{DB: db}, db
}

func ptr(f float64) *float64 { return &f }

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func seedGorm(t *testing.T, db *gorm.DB) (domain.Producer, []domain.Listing) {
	p := domain.Producer{Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "9990001111", AuthID: "auth0|ravi"}
	require.NoError(t, db.Create(&p).Error)
	ls := []domain.Listing{
		{ProducerID: p.ID, CropType: "rice", WasteType: domain.WasteStraw, Quantity: 100, Price: 2, CreatedAt: at(2024, 3, 1),
			Location: domain.Location{District: "Durg", State: "Chhattisgarh", Pincode: "491001", Longitude: ptr(81.28), Latitude: ptr(21.19)}},
		{ProducerID: p.ID, CropType: "wheat", WasteType: domain.WasteHusk, Quantity: 50, Price: 3, CreatedAt: at(2024, 4, 1), Status: domain.StatusSold,
			Location: domain.Location{District: "Nashik", State: "Maharashtra", Pincode: "422001", Longitude: ptr(73.79), Latitude: ptr(19.99)}},
		{ProducerID: p.ID, CropType: "rice", WasteType: domain.WasteStraw, Quantity: 20, Price: 1, CreatedAt: at(2024, 5, 1),
			Location: domain.Location{District: "Durg", State: "Chhattisgarh", Pincode: "491001"}},
	}
	for i := range ls {
		require.NoError(t, db.Create(&ls[i]).Error)
	}
	return p, ls
}

func TestGormStore_FindExactMatchAndOrder(t *testing.T) {
	s, db := setupGormStore(t)
	_, ls := seedGorm(t, db)
	ctx := context.Background()

	all, err := s.Find(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ls[0].ID, all[0].ID)
	assert.Equal(t, ls[2].ID, all[2].ID)
	assert.Equal(t, domain.StatusAvailable, all[0].Status, "default status")
	assert.Equal(t, domain.UnitKg, all[0].Unit, "default unit")

	straw, err := s.Find(ctx, Query{WasteType: domain.WasteStraw, District: "Durg"})
	require.NoError(t, err)
	assert.Len(t, straw, 2)

	sold, err := s.Find(ctx, Query{Status: domain.StatusSold, State: "Maharashtra", Pincode: "422001", CropType: "wheat"})
	require.NoError(t, err)
	require.Len(t, sold, 1)
	assert.Equal(t, ls[1].ID, sold[0].ID)

	none, err := s.Find(ctx, Query{CropType: "maize"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormStore_FindCreatedRange(t *testing.T) {
	s, db := setupGormStore(t)
	seedGorm(t, db)
	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	got, err := s.Find(context.Background(), Query{CreatedFrom: &from, CreatedBefore: &before})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.WasteHusk, got[0].WasteType)
}

func TestGormStore_FindBoundingBox(t *testing.T) {
	s, db := setupGormStore(t)
	_, ls := seedGorm(t, db)
	box := domain.BoundingBox{SW: domain.GeoPoint{Longitude: 80, Latitude: 20}, NE: domain.GeoPoint{Longitude: 82, Latitude: 22}}
	got, err := s.Find(context.Background(), Query{Box: &box})
	require.NoError(t, err)
	require.Len(t, got, 1, "listings without a point never match a box")
	assert.Equal(t, ls[0].ID, got[0].ID)
}

func TestGormStore_FindWithProducerProjection(t *testing.T) {
	s, db := setupGormStore(t)
	p, _ := seedGorm(t, db)
	got, err := s.Find(context.Background(), Query{WithProducer: true, ProducerID: &p.ID})
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.NotNil(t, got[0].Producer)
	assert.Equal(t, domain.ProducerContact{Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "9990001111"}, got[0].Producer.Contact())
	assert.Empty(t, got[0].Producer.AuthID, "projection must not load other columns")
}

func TestGormStore_GetAndNotFound(t *testing.T) {
	s, db := setupGormStore(t)
	_, ls := seedGorm(t, db)
	got, err := s.Get(context.Background(), ls[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "wheat", got.CropType)
	require.NotNil(t, got.Producer)
	assert.Equal(t, "Ravi Kumar", got.Producer.Name)

	_, err = s.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGormStore_CreateRoundTripImages(t *testing.T) {
	s, _ := setupGormStore(t)
	l := &domain.Listing{ProducerID: uuid.New(), CropType: "maize", WasteType: domain.WasteStalks, Quantity: 3, Unit: domain.UnitTon, Price: 900,
		Images: []string{"a.jpg", "b.jpg"}}
	require.NoError(t, s.Create(context.Background(), l))
	assert.NotEqual(t, uuid.Nil, l.ID)
	assert.False(t, l.CreatedAt.IsZero())

	got, err := s.Get(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, []string(got.Images))
	assert.Equal(t, domain.UnitTon, got.Unit)
	assert.Nil(t, got.Producer, "unknown producer resolves to no projection")
}
