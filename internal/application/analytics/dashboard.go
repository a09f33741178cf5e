package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Dashboard bundles the three headline aggregations.
type Dashboard struct {
	Stats               *Stats               `json:"stats"`
	Monthly             []MonthBucket        `json:"monthly"`
	EnvironmentalImpact *EnvironmentalImpact `json:"environmentalImpact"`
}

// Dashboard runs Stats, MonthlyAnalytics and EnvironmentalImpact concurrently.
// The first failure cancels the others and is returned.
func (s *Service) Dashboard(ctx context.Context, year int) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := s.Stats(gctx, StatsParams{})
		d.Stats = st
		return err
	})
	g.Go(func() error {
		m, err := s.MonthlyAnalytics(gctx, year)
		d.Monthly = m
		return err
	})
	g.Go(func() error {
		e, err := s.EnvironmentalImpact(gctx)
		d.EnvironmentalImpact = e
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
