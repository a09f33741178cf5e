package health

import (
	healthsvc "agrowaste-backend/internal/application/health"
	"agrowaste-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const serviceName = "agrowaste-api"

// Handlers holds dependencies for health endpoints.
type Handlers struct {
	Collector      *healthsvc.Collector
	HealthAdminKey string
}

// Reset clears health stats in Redis. Requires query key=HEALTH_ADMIN_KEY.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" || key != h.HealthAdminKey {
		return response.Error(c, "Unauthorized", fiber.StatusForbidden, nil)
	}
	if h.Collector.Rdb == nil {
		return response.Error(c, "redis is not configured", fiber.StatusServiceUnavailable, nil)
	}
	if err := h.Collector.Reset(c.UserContext()); err != nil {
		log.Error().Err(err).Msg("health reset failed")
		return response.Error(c, "redis unavailable", fiber.StatusServiceUnavailable, nil)
	}
	return response.Success(c, "Stats reset successfully", fiber.Map{"success": true}, nil)
}

// JSON returns the health report.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	r := h.Collector.Collect(c.UserContext())
	return c.JSON(fiber.Map{
		"service":      serviceName,
		"status":       r.Status,
		"runtime":      r.Runtime,
		"traffic":      r.Traffic,
		"dependencies": r.Dependencies,
	})
}

// Errors returns the most recent 5xx entries.
func (h *Handlers) Errors(c *fiber.Ctx) error {
	if h.Collector.Rdb == nil {
		return c.JSON([]interface{}{})
	}
	entries, err := h.Collector.Errors(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON([]interface{}{})
	}
	return c.JSON(entries)
}
