package analytics

import (
	"context"
	"time"

	"agrowaste-backend/internal/application/impact"
	"agrowaste-backend/internal/application/listings"
	"agrowaste-backend/internal/domain"
	"agrowaste-backend/internal/metrics"
	"agrowaste-backend/internal/pkg/apperr"

	"github.com/rs/zerolog/log"
)

// Cache stores finished results. Lookup returns the key a later Fill must use,
// or "" when the cache cannot be used for this request.
type Cache interface {
	Lookup(ctx context.Context, op, params string, dst interface{}) (key string, hit bool)
	Fill(ctx context.Context, key string, v interface{})
}

// Service runs the aggregations over snapshots read from Store. Every listing
// is normalized to kilograms before it is aggregated.
type Service struct {
	Store   listings.Store
	Impact  impact.Model
	Cache   Cache
	Metrics *metrics.Registry
	Timeout time.Duration
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) timeout() time.Duration {
	if s.Timeout <= 0 {
		return 10 * time.Second
	}
	return s.Timeout
}

// reject records a query refused before it reached run and returns err.
func (s *Service) reject(op string, err error) error {
	s.Metrics.Observe(op, time.Now(), err)
	return err
}

// load reads a snapshot for op and normalizes it.
func (s *Service) load(ctx context.Context, op string, q listings.Query) ([]domain.Listing, error) {
	ls, err := s.Store.Find(ctx, q)
	if err != nil {
		err = apperr.FromStore(ctx, err)
		log.Warn().Err(err).Str("op", op).Msg("analytics snapshot read failed")
		return nil, err
	}
	s.Metrics.Scanned(op, len(ls))
	return normalize(ls), nil
}

// run wraps one aggregation with metrics, the result cache and the query timeout.
func run[T any](ctx context.Context, s *Service, op, params string, fn func(context.Context) (T, error)) (res T, err error) {
	defer func(start time.Time) { s.Metrics.Observe(op, start, err) }(time.Now())

	var key string
	if s.Cache != nil {
		var hit bool
		key, hit = s.Cache.Lookup(ctx, op, params, &res)
		s.Metrics.CacheResult(hit)
		if hit {
			return res, nil
		}
	}

	qctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()
	res, err = fn(qctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if s.Cache != nil && key != "" {
		s.Cache.Fill(ctx, key, res)
	}
	return res, nil
}
