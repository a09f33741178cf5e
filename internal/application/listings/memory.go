package listings

import (
	"context"
	"sort"
	"sync"
	"time"

	"agrowaste-backend/internal/domain"
	"agrowaste-backend/internal/pkg/apperr"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store. It backs engine tests and local runs
// without a database.
type MemoryStore struct {
	mu        sync.RWMutex
	listings  []domain.Listing
	producers map[uuid.UUID]domain.Producer

	// Now stamps CreatedAt on Create. Defaults to time.Now.
	Now func() time.Time
	// Err, when set, is returned by every read.
	Err error
	// Delay holds every read until it elapses or the context ends.
	Delay time.Duration
}

func NewMemoryStore(seed ...domain.Listing) *MemoryStore {
	s := &MemoryStore{producers: map[uuid.UUID]domain.Producer{}}
	s.Add(seed...)
	return s
}

// Add inserts listings as-is, assigning ids where missing.
func (s *MemoryStore) Add(ls ...domain.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range ls {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		l.Producer = nil
		s.listings = append(s.listings, l)
	}
}

func (s *MemoryStore) AddProducer(p domain.Producer) domain.Producer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if s.producers == nil {
		s.producers = map[uuid.UUID]domain.Producer{}
	}
	s.producers[p.ID] = p
	return p
}

func (s *MemoryStore) wait(ctx context.Context) error {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Err
}

func (s *MemoryStore) Find(ctx context.Context, q Query) ([]domain.Listing, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		if !q.Matches(l) {
			continue
		}
		if q.WithProducer {
			l.Producer = s.contact(l.ProducerID)
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.listings {
		if l.ID == id {
			l.Producer = s.contact(l.ProducerID)
			return &l, nil
		}
	}
	return nil, apperr.NotFound("listing")
}

func (s *MemoryStore) Create(ctx context.Context, l *domain.Listing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Err != nil {
		return s.Err
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	_ = l.BeforeCreate(nil)
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now()
	}
	l.UpdatedAt = l.CreatedAt
	s.Add(*l)
	return nil
}

// contact mirrors the GORM preload: only id, name, email and phone survive.
func (s *MemoryStore) contact(id uuid.UUID) *domain.Producer {
	p, ok := s.producers[id]
	if !ok {
		return nil
	}
	return &domain.Producer{ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone}
}
