package analytics

import (
	"context"

	"agrowaste-backend/internal/application/listings"
	"agrowaste-backend/internal/domain"
	"agrowaste-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type TypeQuantity struct {
	Quantity float64     `json:"quantity"`
	Unit     domain.Unit `json:"unit"`
}

type Stats struct {
	StatusBreakdown map[domain.Status]int             `json:"statusBreakdown"`
	TotalListings   int                               `json:"totalListings"`
	TotalQuantity   float64                           `json:"totalQuantity"`
	TotalRevenue    float64                           `json:"totalRevenue"`
	WasteByType     map[domain.WasteType]TypeQuantity `json:"wasteByType"`
}

// StatsParams optionally scopes Stats to one producer.
type StatsParams struct {
	ProducerID *uuid.UUID
}

func (p StatsParams) key() string {
	if p.ProducerID == nil {
		return "all"
	}
	return p.ProducerID.String()
}

type totalsFacet struct {
	quantity float64
	revenue  float64
	byType   map[domain.WasteType]TypeQuantity
}

// Stats computes the status breakdown and the totals as two independent facets
// over one snapshot. WasteByType holds the quantity of the last listing seen
// for each type in store order, not a sum.
func (s *Service) Stats(ctx context.Context, p StatsParams) (*Stats, error) {
	return run(ctx, s, "stats", p.key(), func(ctx context.Context) (*Stats, error) {
		ls, err := s.load(ctx, "stats", listings.Query{ProducerID: p.ProducerID})
		if err != nil {
			return nil, err
		}

		var statuses map[domain.Status]int
		var totals totalsFacet
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			statuses = statusFacet(ls)
			return nil
		})
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			totals = totalFacet(ls)
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, apperr.FromStore(ctx, err)
		}

		return &Stats{
			StatusBreakdown: statuses,
			TotalListings:   len(ls),
			TotalQuantity:   totals.quantity,
			TotalRevenue:    totals.revenue,
			WasteByType:     totals.byType,
		}, nil
	})
}

func statusFacet(ls []domain.Listing) map[domain.Status]int {
	keys, groups := groupBy(ls, func(l domain.Listing) domain.Status { return l.Status })
	out := make(map[domain.Status]int, len(keys))
	for _, k := range keys {
		out[k] = len(groups[k])
	}
	return out
}

func totalFacet(ls []domain.Listing) totalsFacet {
	f := totalsFacet{
		quantity: sumBy(ls, quantity),
		revenue:  sumBy(ls, revenue),
		byType:   map[domain.WasteType]TypeQuantity{},
	}
	for _, l := range ls {
		f.byType[l.WasteType.Canonical()] = TypeQuantity{Quantity: l.Quantity, Unit: l.Unit}
	}
	return f
}
