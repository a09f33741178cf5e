package middleware

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis keys for the shared traffic counters read by the health endpoints.
const (
	KeyReqTotal  = "health:global:req_total"
	KeyReqErrors = "health:global:req_errors"
	KeyResTime   = "health:global:res_time_total"
	KeyResCount  = "health:global:res_count"
	KeyStartTime = "health:global:start_time"
	KeyLastReq   = "health:global:last_request"
	KeyErrorLog  = "health:global:error_log"

	ErrorLogSize = 50
)

// HealthKeys lists every traffic key, for resets.
var HealthKeys = []string{KeyReqTotal, KeyReqErrors, KeyResTime, KeyResCount, KeyStartTime, KeyLastReq, KeyErrorLog}

func skipHealthMarker(path string) bool {
	return path == "/" || path == "/metrics" || strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/favicon")
}

// HealthMarker records request counters in Redis and keeps the last
// ErrorLogSize failed requests (5xx) in KeyErrorLog.
func HealthMarker(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if rdb == nil || skipHealthMarker(path) {
			return c.Next()
		}

		start := time.Now()
		lastReq, _ := json.Marshal(map[string]interface{}{
			"time":   start,
			"ip":     c.IP(),
			"path":   c.OriginalURL(),
			"method": c.Method(),
		})

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = statusFor(err)
		}
		ctx := c.UserContext()
		_, perr := rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, KeyLastReq, lastReq, 0)
			p.Incr(ctx, KeyReqTotal)
			p.Incr(ctx, KeyResCount)
			p.IncrByFloat(ctx, KeyResTime, float64(time.Since(start).Milliseconds()))
			if status >= fiber.StatusInternalServerError {
				entry, _ := json.Marshal(map[string]interface{}{
					"time":     time.Now().UTC(),
					"path":     c.OriginalURL(),
					"method":   c.Method(),
					"status":   status,
					"trace_id": GetTraceID(c),
					"message":  errMessage(err),
				})
				p.Incr(ctx, KeyReqErrors)
				p.LPush(ctx, KeyErrorLog, entry)
				p.LTrim(ctx, KeyErrorLog, 0, ErrorLogSize-1)
			}
			return nil
		})
		if perr != nil {
			log.Debug().Err(perr).Msg("health counters not recorded")
		}
		return err
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
