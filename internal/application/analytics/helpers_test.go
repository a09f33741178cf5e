package analytics

import (
	"testing"
	"time"

	"agrowaste-backend/internal/application/impact"
	"agrowaste-backend/internal/application/listings"
	"agrowaste-backend/internal/domain"
	"agrowaste-backend/internal/metrics"
)

func ptr(f float64) *float64 { return &f }

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// lot builds an available kg listing.
func lot(t domain.WasteType, qty, price float64, created time.Time) domain.Listing {
	return domain.Listing{
		CropType:  "rice",
		WasteType: t,
		Quantity:  qty,
		Unit:      domain.UnitKg,
		Price:     price,
		Status:    domain.StatusAvailable,
		CreatedAt: created,
	}
}

func in(l domain.Listing, district, state, pincode string) domain.Listing {
	l.Location.District = district
	l.Location.State = state
	l.Location.Pincode = pincode
	return l
}

func point(l domain.Listing, lng, lat float64) domain.Listing {
	l.Location.Longitude = ptr(lng)
	l.Location.Latitude = ptr(lat)
	return l
}

func setupAnalyticsTest(t *testing.T, seed ...domain.Listing) (*Service, *listings.MemoryStore) {
	t.Helper()
	store := listings.NewMemoryStore(seed...)
	svc := &Service{
		Store:   store,
		Impact:  impact.DefaultModel(),
		Metrics: metrics.NewRegistry(),
		Now:     func() time.Time { return at(2024, 6, 15) },
	}
	return svc, store
}
