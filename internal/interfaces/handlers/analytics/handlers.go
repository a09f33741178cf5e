package analytics

import (
	"strconv"
	"strings"

	analyticssvc "agrowaste-backend/internal/application/analytics"
	"agrowaste-backend/internal/pkg/apperr"
	"agrowaste-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *analyticssvc.Service
}

func queryInt(c *fiber.Ctx, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.InvalidQuery("%s must be an integer", name)
	}
	return n, nil
}

// GET /api/v1/analytics/stats?producerId=
func (h *Handlers) Stats(c *fiber.Ctx) error {
	var p analyticssvc.StatsParams
	if raw := strings.TrimSpace(c.Query("producerId")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperr.InvalidQuery("producerId is not a valid id")
		}
		p.ProducerID = &id
	}
	stats, err := h.Service.Stats(c.UserContext(), p)
	if err != nil {
		return err
	}
	return response.Success(c, "Statistics fetched successfully", stats, nil)
}

// GET /api/v1/analytics/monthly?year=
func (h *Handlers) Monthly(c *fiber.Ctx) error {
	year, err := queryInt(c, "year")
	if err != nil {
		return err
	}
	buckets, err := h.Service.MonthlyAnalytics(c.UserContext(), year)
	if err != nil {
		return err
	}
	return response.Success(c, "Monthly analytics fetched successfully", buckets, nil)
}

// GET /api/v1/analytics/environmental-impact
func (h *Handlers) EnvironmentalImpact(c *fiber.Ctx) error {
	impact, err := h.Service.EnvironmentalImpact(c.UserContext())
	if err != nil {
		return err
	}
	return response.Success(c, "Environmental impact fetched successfully", impact, nil)
}

// GET /api/v1/analytics/map?swLng=&swLat=&neLng=&neLat=
func (h *Handlers) Map(c *fiber.Ctx) error {
	bounds, err := analyticssvc.ParseBounds(c.Query("swLng"), c.Query("swLat"), c.Query("neLng"), c.Query("neLat"))
	if err != nil {
		return err
	}
	points, err := h.Service.MapData(c.UserContext(), bounds)
	if err != nil {
		return err
	}
	return response.Success(c, "Map data fetched successfully", points, fiber.Map{"total": len(points)})
}

// GET /api/v1/analytics/locations?groupBy=&limit=
func (h *Handlers) Locations(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	groupBy := strings.TrimSpace(c.Query("groupBy"))
	if groupBy == "" {
		groupBy = string(analyticssvc.ByDistrict)
	}
	stats, err := h.Service.LocationStats(c.UserContext(), analyticssvc.LocationStatsParams{
		GroupBy: analyticssvc.LocationField(groupBy),
		Limit:   limit,
	})
	if err != nil {
		return err
	}
	return response.Success(c, "Location statistics fetched successfully", stats, nil)
}

// GET /api/v1/analytics/dashboard?year=
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	year, err := queryInt(c, "year")
	if err != nil {
		return err
	}
	d, err := h.Service.Dashboard(c.UserContext(), year)
	if err != nil {
		return err
	}
	return response.Success(c, "Dashboard fetched successfully", d, nil)
}

// POST /api/v1/analytics/estimate
func (h *Handlers) Estimate(c *fiber.Ctx) error {
	var in analyticssvc.EstimateInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.InvalidArgument("invalid request body")
	}
	est, err := h.Service.EstimateWaste(c.UserContext(), in)
	if err != nil {
		return err
	}
	return response.Success(c, "Waste estimate computed successfully", est, nil)
}
