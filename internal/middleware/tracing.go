package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderTraceID carries the request trace id in both directions.
const HeaderTraceID = "X-Trace-Id"
const traceIDLocal = "trace_id"

// Tracing tags the request with a trace ID. A valid inbound X-Trace-Id is
// reused so a caller can follow one request across services.
func Tracing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(HeaderTraceID)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.New().String()
		}
		c.Locals(traceIDLocal, traceID)
		c.Set(HeaderTraceID, traceID)
		return c.Next()
	}
}

// GetTraceID returns the trace ID from context.
func GetTraceID(c *fiber.Ctx) string {
	if id, ok := c.Locals(traceIDLocal).(string); ok {
		return id
	}
	return ""
}
