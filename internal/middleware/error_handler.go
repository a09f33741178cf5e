package middleware

import (
	"errors"

	"agrowaste-backend/internal/pkg/apperr"
	"agrowaste-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is the global error handler. Fiber errors keep their code,
// engine errors are mapped by kind, anything else is a 500 with a hidden message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	message := apperr.Message(err)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		message = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Int("status", code).Msg("request failed")
	}
	return response.Error(c, message, code, nil)
}

func statusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return apperr.StatusCode(err)
}
