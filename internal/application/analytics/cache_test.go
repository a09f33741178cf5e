package analytics

import (
	"context"
	"testing"
	"time"

	"agrowaste-backend/internal/domain"
	"agrowaste-backend/internal/infrastructure/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_CachesUntilInvalidated(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	c := cache.New(rdb, time.Minute)

	svc, store := setupAnalyticsTest(t, lot(domain.WasteStraw, 100, 2, at(2024, 3, 1)))
	svc.Cache = c
	ctx := context.Background()

	first, err := svc.Stats(ctx, StatsParams{})
	require.NoError(t, err)
	assert.True(t, mr.Exists("analytics:0:stats:all"))

	store.Add(lot(domain.WasteHusk, 50, 1, at(2024, 3, 2)))
	cached, err := svc.Stats(ctx, StatsParams{})
	require.NoError(t, err)
	assert.Equal(t, first, cached, "served from cache")
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.Metrics.CacheLookups.WithLabelValues("hit")))

	require.NoError(t, c.Invalidate(ctx))
	fresh, err := svc.Stats(ctx, StatsParams{})
	require.NoError(t, err)
	assert.Equal(t, 150.0, fresh.TotalQuantity)
}

func TestService_CachedMonthlyMatchesComputed(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	svc, _ := setupAnalyticsTest(t, lot(domain.WasteStraw, 100, 2, at(2024, 3, 1)))
	svc.Cache = cache.New(rdb, time.Minute)

	computed, err := svc.MonthlyAnalytics(context.Background(), 2024)
	require.NoError(t, err)
	cached, err := svc.MonthlyAnalytics(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, computed, cached)
}

func TestService_CacheOutageFallsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	svc, _ := setupAnalyticsTest(t, lot(domain.WasteStraw, 100, 2, at(2024, 3, 1)))
	svc.Cache = cache.New(rdb, time.Minute)
	st, err := svc.Stats(context.Background(), StatsParams{})
	require.NoError(t, err)
	assert.Equal(t, 100.0, st.TotalQuantity)
}
