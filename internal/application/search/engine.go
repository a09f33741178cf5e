package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"agrowaste-backend/internal/application/listings"
	"agrowaste-backend/internal/domain"
	"agrowaste-backend/internal/metrics"
	"agrowaste-backend/internal/pkg/apperr"
)

// Hit is one search result. Listing is returned as stored; QuantityKg is its
// quantity normalized to kilograms.
type Hit struct {
	Listing        domain.Listing          `json:"listing"`
	Producer       *domain.ProducerContact `json:"producer"`
	Score          float64                 `json:"score,omitempty"`
	DistanceMeters *float64                `json:"distanceMeters,omitempty"`
	QuantityKg     float64                 `json:"quantityKg"`
}

type Result struct {
	Listings []Hit `json:"listings"`
	Total    int   `json:"total"`
	Limit    int   `json:"limit"`
	Skip     int   `json:"skip"`
}

type Engine struct {
	Store         listings.Store
	Metrics       *metrics.Registry
	Timeout       time.Duration
	DefaultRadius float64
}

func (e *Engine) timeout() time.Duration {
	if e.Timeout <= 0 {
		return 10 * time.Second
	}
	return e.Timeout
}

func (e *Engine) radius(p *Proximity) float64 {
	if p.RadiusMeters > 0 {
		return p.RadiusMeters
	}
	if e.DefaultRadius > 0 {
		return e.DefaultRadius
	}
	return DefaultRadiusMeters
}

// Search runs f against the store and returns one page of ordered hits.
// With text, hits are ordered by relevance; with a proximity point, nearest
// first; otherwise newest first. Ties always fall back to id ascending.
func (e *Engine) Search(ctx context.Context, f Filters) (res *Result, err error) {
	defer func(start time.Time) { e.Metrics.Observe("search", start, err) }(time.Now())

	if err := f.Validate(); err != nil {
		return nil, err
	}
	q := listings.Query{
		CropType:     f.CropType,
		WasteType:    f.WasteType,
		Status:       f.Status,
		ProducerID:   f.ProducerID,
		WithProducer: true,
	}
	if f.Location != nil {
		q.Pincode = f.Location.Pincode
		q.State = f.Location.State
		q.District = f.Location.District
	}
	var radius float64
	if f.Near != nil {
		radius = e.radius(f.Near)
		box := domain.BoxAround(f.Near.Point, radius)
		q.Box = &box
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout())
	defer cancel()
	found, err := e.Store.Find(ctx, q)
	if err != nil {
		return nil, apperr.FromStore(ctx, err)
	}
	e.Metrics.Scanned("search", len(found))

	qterms := terms(f.SearchText)
	text := strings.TrimSpace(f.SearchText) != ""
	hits := make([]Hit, 0, len(found))
	for _, l := range found {
		h := Hit{QuantityKg: l.Normalized().Quantity}
		if text {
			h.Score = score(l, qterms)
			if h.Score == 0 {
				continue
			}
		}
		if f.Near != nil {
			p, ok := l.Location.Point()
			if !ok {
				continue
			}
			d := domain.DistanceMeters(f.Near.Point, p)
			if d > radius {
				continue
			}
			h.DistanceMeters = &d
		}
		if l.Producer != nil {
			c := l.Producer.Contact()
			h.Producer = &c
		}
		l.Producer = nil
		h.Listing = l
		hits = append(hits, h)
	}

	switch {
	case text:
		sort.SliceStable(hits, func(i, j int) bool {
			if hits[i].Score != hits[j].Score {
				return hits[i].Score > hits[j].Score
			}
			return idLess(hits[i], hits[j])
		})
	case f.Near != nil:
		sort.SliceStable(hits, func(i, j int) bool {
			if *hits[i].DistanceMeters != *hits[j].DistanceMeters {
				return *hits[i].DistanceMeters < *hits[j].DistanceMeters
			}
			return idLess(hits[i], hits[j])
		})
	default:
		sort.SliceStable(hits, func(i, j int) bool {
			a, b := hits[i].Listing.CreatedAt, hits[j].Listing.CreatedAt
			if !a.Equal(b) {
				return a.After(b)
			}
			return idLess(hits[i], hits[j])
		})
	}

	res = &Result{Total: len(hits), Limit: f.limit(), Skip: f.Skip}
	res.Listings = page(hits, f.Skip, res.Limit)
	return res, nil
}

func idLess(a, b Hit) bool {
	return a.Listing.ID.String() < b.Listing.ID.String()
}

func page(hits []Hit, skip, limit int) []Hit {
	if skip >= len(hits) {
		return []Hit{}
	}
	end := skip + limit
	if end > len(hits) {
		end = len(hits)
	}
	return hits[skip:end]
}
