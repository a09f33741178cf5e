package listings

import (
	"context"
	"time"

	"agrowaste-backend/internal/domain"

	"github.com/google/uuid"
)

// Store is the read/create contract the query engines consume. Find returns
// matching listings ordered by createdAt ascending, then id ascending.
type Store interface {
	Find(ctx context.Context, q Query) ([]domain.Listing, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	Create(ctx context.Context, l *domain.Listing) error
}

// Query is a conjunction of exact-match predicates. Zero fields do not filter.
type Query struct {
	CropType   string
	WasteType  domain.WasteType
	Status     domain.Status
	Pincode    string
	State      string
	District   string
	ProducerID *uuid.UUID

	// CreatedFrom is inclusive, CreatedBefore exclusive.
	CreatedFrom   *time.Time
	CreatedBefore *time.Time

	// Box keeps only listings whose point lies inside it; listings without a
	// point never match a box.
	Box *domain.BoundingBox

	// WithProducer attaches the producer's name, email and phone.
	WithProducer bool
}

// Matches reports whether l satisfies every predicate in q.
func (q Query) Matches(l domain.Listing) bool {
	if q.CropType != "" && l.CropType != q.CropType {
		return false
	}
	if q.WasteType != "" && l.WasteType != q.WasteType {
		return false
	}
	if q.Status != "" && l.Status != q.Status {
		return false
	}
	if q.Pincode != "" && l.Location.Pincode != q.Pincode {
		return false
	}
	if q.State != "" && l.Location.State != q.State {
		return false
	}
	if q.District != "" && l.Location.District != q.District {
		return false
	}
	if q.ProducerID != nil && l.ProducerID != *q.ProducerID {
		return false
	}
	if q.CreatedFrom != nil && l.CreatedAt.Before(*q.CreatedFrom) {
		return false
	}
	if q.CreatedBefore != nil && !l.CreatedAt.Before(*q.CreatedBefore) {
		return false
	}
	if q.Box != nil {
		p, ok := l.Location.Point()
		if !ok || !q.Box.Contains(p) {
			return false
		}
	}
	return true
}

// Less is the store order: createdAt ascending, then id ascending.
func Less(a, b domain.Listing) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}
