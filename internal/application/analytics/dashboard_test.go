package analytics

import (
	"context"
	"errors"
	"testing"

	"agrowaste-backend/internal/domain"
	"agrowaste-backend/internal/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard_BundlesHeadlineAggregations(t *testing.T) {
	svc, _ := setupAnalyticsTest(t,
		lot(domain.WasteStraw, 100, 2, at(2024, 3, 1)),
		lot(domain.WasteHusk, 50, 3, at(2023, 3, 1)),
	)
	d, err := svc.Dashboard(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, 150.0, d.Stats.TotalQuantity)
	require.Len(t, d.Monthly, 12)
	assert.Equal(t, 100.0, d.Monthly[2].TotalQuantity)
	assert.InDelta(t, 210.0, d.EnvironmentalImpact.Summary.TotalCarbonImpact, 1e-9)
}

func TestDashboard_FirstErrorWins(t *testing.T) {
	svc, store := setupAnalyticsTest(t)
	_, err := svc.Dashboard(context.Background(), 1900)
	assert.ErrorIs(t, err, apperr.ErrInvalidQuery)

	store.Err = errors.New("pool exhausted")
	_, err = svc.Dashboard(context.Background(), 2024)
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
}

func TestAggregations_AreIdempotent(t *testing.T) {
	svc := locationFixture(t)
	ctx := context.Background()

	s1, err := svc.Stats(ctx, StatsParams{})
	require.NoError(t, err)
	s2, err := svc.Stats(ctx, StatsParams{})
	require.NoError(t, err)
	assert.Equal(t, s1, s2)

	m1, err := svc.MonthlyAnalytics(ctx, 2024)
	require.NoError(t, err)
	m2, err := svc.MonthlyAnalytics(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, m1, m2)

	e1, err := svc.EnvironmentalImpact(ctx)
	require.NoError(t, err)
	e2, err := svc.EnvironmentalImpact(ctx)
	require.NoError(t, err)
	assert.Equal(t, e1, e2)

	p1, err := svc.MapData(ctx, nil)
	require.NoError(t, err)
	p2, err := svc.MapData(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)

	l1, err := svc.LocationStats(ctx, LocationStatsParams{GroupBy: ByState})
	require.NoError(t, err)
	l2, err := svc.LocationStats(ctx, LocationStatsParams{GroupBy: ByState})
	require.NoError(t, err)
	assert.Equal(t, l1, l2)
}
