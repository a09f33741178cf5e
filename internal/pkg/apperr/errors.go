package apperr

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrInvalidQuery     = errors.New("invalid query")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrQueryTimeout     = errors.New("query timeout")
)

// InvalidQuery wraps ErrInvalidQuery with a caller-facing reason.
func InvalidQuery(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}

// InvalidArgument wraps ErrInvalidArgument with a caller-facing reason.
func InvalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// NotFound wraps ErrNotFound for the named entity.
func NotFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// FromStore classifies a failed store read. A context deadline becomes
// ErrQueryTimeout; everything else is reported as ErrStoreUnavailable.
// Errors already carrying a taxonomy sentinel are returned unchanged.
func FromStore(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidQuery) || errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrNotFound) || errors.Is(err, ErrQueryTimeout) ||
		errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrQueryTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// StatusCode maps an error to the HTTP status the handlers respond with.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidQuery), errors.Is(err, ErrInvalidArgument):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, ErrQueryTimeout):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

// Message returns the text safe to show a caller. Unclassified errors are hidden.
func Message(err error) string {
	if StatusCode(err) == fiber.StatusInternalServerError {
		return "Internal Server Error"
	}
	return err.Error()
}
