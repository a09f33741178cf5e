package metrics

import (
	"errors"
	"net/http"
	"time"

	"agrowaste-backend/internal/pkg/apperr"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for query counters.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
	OutcomeTimeout     = "timeout"
	OutcomeError       = "error"
)

// Registry owns the query engine collectors on a private prometheus registry.
// A nil *Registry is valid and records nothing.
type Registry struct {
	reg             *prometheus.Registry
	Queries         *prometheus.CounterVec
	QuerySeconds    *prometheus.HistogramVec
	ListingsScanned *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agrowaste_queries_total",
		Help: "Engine queries by operation and outcome.",
	}, []string{"op", "outcome"})
	seconds := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agrowaste_query_duration_seconds",
		Help:    "Engine query latency by operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	scanned := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agrowaste_listings_scanned_total",
		Help: "Listings read from the store by operation.",
	}, []string{"op"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agrowaste_cache_lookups_total",
		Help: "Analytics cache lookups by result.",
	}, []string{"result"})

	r.MustRegister(queries, seconds, scanned, cache)
	return &Registry{
		reg:             r,
		Queries:         queries,
		QuerySeconds:    seconds,
		ListingsScanned: scanned,
		CacheLookups:    cache,
	}
}

// Observe records one finished query. Use it deferred with the start time:
//
//	defer func(t time.Time) { m.Observe("stats", t, err) }(time.Now())
func (r *Registry) Observe(op string, start time.Time, err error) {
	if r == nil {
		return
	}
	r.Queries.WithLabelValues(op, Outcome(err)).Inc()
	r.QuerySeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (r *Registry) Scanned(op string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.ListingsScanned.WithLabelValues(op).Add(float64(n))
}

func (r *Registry) CacheResult(hit bool) {
	if r == nil {
		return
	}
	if hit {
		r.CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	r.CacheLookups.WithLabelValues("miss").Inc()
}

// Outcome buckets err into one of the outcome labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, apperr.ErrInvalidQuery), errors.Is(err, apperr.ErrInvalidArgument):
		return OutcomeInvalid
	case errors.Is(err, apperr.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, apperr.ErrStoreUnavailable):
		return OutcomeUnavailable
	case errors.Is(err, apperr.ErrQueryTimeout):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
