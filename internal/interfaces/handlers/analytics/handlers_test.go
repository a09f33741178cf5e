package analytics

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	analyticssvc "agrowaste-backend/internal/application/analytics"
	"agrowaste-backend/internal/application/impact"
	"agrowaste-backend/internal/application/listings"
	"agrowaste-backend/internal/domain"
	"agrowaste-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func setupAnalyticsTest(t *testing.T) (*fiber.App, *listings.MemoryStore, uuid.UUID) {
	producer := uuid.New()
	at := func(m time.Month) time.Time { return time.Date(2024, m, 10, 12, 0, 0, 0, time.UTC) }
	store := listings.NewMemoryStore(
		domain.Listing{ProducerID: producer, CropType: "rice", WasteType: domain.WasteStraw, Quantity: 100, Unit: domain.UnitKg, Price: 2,
			Status: domain.StatusAvailable, CreatedAt: at(time.March),
			Location: domain.Location{District: "Karnal", State: "Haryana", Pincode: "132001", Longitude: ptr(76.99), Latitude: ptr(29.69)}},
		domain.Listing{ProducerID: producer, CropType: "wheat", WasteType: domain.WasteHusk, Quantity: 50, Unit: domain.UnitKg, Price: 3,
			Status: domain.StatusSold, CreatedAt: at(time.March),
			Location: domain.Location{District: "Durg", State: "Chhattisgarh", Pincode: "491001", Longitude: ptr(81.28), Latitude: ptr(21.19)}},
		domain.Listing{ProducerID: uuid.New(), CropType: "maize", WasteType: domain.WasteStalks, Quantity: 50, Unit: domain.UnitKg, Price: 1,
			Status: domain.StatusAvailable, CreatedAt: at(time.July),
			Location: domain.Location{District: "Karnal", State: "Haryana", Pincode: "132001"}},
	)
	h := &Handlers{Service: &analyticssvc.Service{
		Store:  store,
		Impact: impact.DefaultModel(),
		Now:    func() time.Time { return time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC) },
	}}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Get("/analytics/stats", h.Stats)
	app.Get("/analytics/monthly", h.Monthly)
	app.Get("/analytics/environmental-impact", h.EnvironmentalImpact)
	app.Get("/analytics/map", h.Map)
	app.Get("/analytics/locations", h.Locations)
	app.Get("/analytics/dashboard", h.Dashboard)
	app.Post("/analytics/estimate", h.Estimate)
	return app, store, producer
}

func get(t *testing.T, app *fiber.App, url string, data interface{}) int {
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var env struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	if data != nil && env.Status == "success" {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return resp.StatusCode
}

func TestStats(t *testing.T) {
	app, _, producer := setupAnalyticsTest(t)
	var s analyticssvc.Stats
	require.Equal(t, fiber.StatusOK, get(t, app, "/analytics/stats", &s))
	assert.Equal(t, 3, s.TotalListings)
	assert.Equal(t, 200.0, s.TotalQuantity)
	assert.Equal(t, 400.0, s.TotalRevenue)
	assert.Equal(t, 2, s.StatusBreakdown[domain.StatusAvailable])

	var scoped analyticssvc.Stats
	require.Equal(t, fiber.StatusOK, get(t, app, "/analytics/stats?producerId="+producer.String(), &scoped))
	assert.Equal(t, 2, scoped.TotalListings)

	assert.Equal(t, fiber.StatusBadRequest, get(t, app, "/analytics/stats?producerId=x", nil))
}

func TestMonthly(t *testing.T) {
	app, _, _ := setupAnalyticsTest(t)
	var buckets []analyticssvc.MonthBucket
	require.Equal(t, fiber.StatusOK, get(t, app, "/analytics/monthly?year=2024", &buckets))
	require.Len(t, buckets, 12)
	assert.Equal(t, 150.0, buckets[2].TotalQuantity)
	assert.Len(t, buckets[2].WasteTypes, 2)
	assert.Equal(t, 50.0, buckets[6].TotalQuantity)
	assert.Empty(t, buckets[0].WasteTypes)

	var current []analyticssvc.MonthBucket
	require.Equal(t, fiber.StatusOK, get(t, app, "/analytics/monthly", &current))
	assert.Equal(t, buckets, current, "year defaults to the current year")

	assert.Equal(t, fiber.StatusBadRequest, get(t, app, "/analytics/monthly?year=abc", nil))
	assert.Equal(t, fiber.StatusBadRequest, get(t, app, "/analytics/monthly?year=10000", nil))
}

func TestEnvironmentalImpact(t *testing.T) {
	app, _, _ := setupAnalyticsTest(t)
	var e analyticssvc.EnvironmentalImpact
	require.Equal(t, fiber.StatusOK, get(t, app, "/analytics/environmental-impact", &e))
	assert.Equal(t, 200.0, e.Summary.TotalWasteManaged)
	assert.Equal(t, 2, e.Summary.TotalLocations)
	assert.InDelta(t, 150+60+50, e.Summary.TotalCarbonImpact, 1e-9)
	assert.Len(t, e.ImpactByType, 3)
}

func TestMap(t *testing.T) {
	app, _, _ := setupAnalyticsTest(t)
	var all []analyticssvc.MapPoint
	require.Equal(t, fiber.StatusOK, get(t, app, "/analytics/map", &all))
	assert.Len(t, all, 3)

	var boxed []analyticssvc.MapPoint
	require.Equal(t, fiber.StatusOK, get(t, app, "/analytics/map?swLng=76&swLat=29&neLng=78&neLat=30", &boxed))
	require.Len(t, boxed, 1)
	assert.Equal(t, domain.WasteStraw, boxed[0].WasteType)

	assert.Equal(t, fiber.StatusBadRequest, get(t, app, "/analytics/map?swLng=76&swLat=29", nil))
}

func TestLocations(t *testing.T) {
	app, _, _ := setupAnalyticsTest(t)
	var ls analyticssvc.LocationStats
	require.Equal(t, fiber.StatusOK, get(t, app, "/analytics/locations", &ls))
	require.Len(t, ls.Locations, 2)
	assert.Equal(t, "Karnal", ls.Locations[0].Name)
	assert.Equal(t, 150.0, ls.Locations[0].TotalWaste)
	assert.Equal(t, 75.0, ls.Locations[0].Percentage)

	var byState analyticssvc.LocationStats
	require.Equal(t, fiber.StatusOK, get(t, app, "/analytics/locations?groupBy=state&limit=1", &byState))
	require.Len(t, byState.Locations, 1)
	assert.Equal(t, "Haryana", byState.Locations[0].Name)

	assert.Equal(t, fiber.StatusBadRequest, get(t, app, "/analytics/locations?groupBy=country", nil))
	assert.Equal(t, fiber.StatusBadRequest, get(t, app, "/analytics/locations?limit=101", nil))
}

func TestDashboard(t *testing.T) {
	app, store, _ := setupAnalyticsTest(t)
	var d analyticssvc.Dashboard
	require.Equal(t, fiber.StatusOK, get(t, app, "/analytics/dashboard?year=2024", &d))
	require.NotNil(t, d.Stats)
	assert.Equal(t, 3, d.Stats.TotalListings)
	assert.Len(t, d.Monthly, 12)
	require.NotNil(t, d.EnvironmentalImpact)

	store.Err = assert.AnError
	assert.Equal(t, fiber.StatusServiceUnavailable, get(t, app, "/analytics/dashboard", nil))
}

func TestEstimate(t *testing.T) {
	app, _, _ := setupAnalyticsTest(t)
	post := func(body string) (*http.Response, []byte) {
		req := httptest.NewRequest("POST", "/analytics/estimate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		raw, _ := io.ReadAll(resp.Body)
		return resp, raw
	}

	resp, raw := post(`{"location":"Durg","landArea":25,"soilCondition":"loamy","cropType":"rice"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var env struct {
		Data analyticssvc.WasteEstimate `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, 10.0, env.Data.PredictedYield)
	assert.Equal(t, 1.0, env.Data.PredictedWaste)
	assert.Equal(t, 200000.0, env.Data.EstimatedProfit)

	bad := map[string]string{
		"unknown location": `{"location":"Paris","landArea":25,"soilCondition":"loamy","cropType":"rice"}`,
		"zero area":        `{"location":"Durg","landArea":0,"soilCondition":"loamy","cropType":"rice"}`,
		"malformed body":   `{"location":`,
	}
	for name, body := range bad {
		t.Run(name, func(t *testing.T) {
			resp, raw := post(body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, string(raw))
		})
	}
}
