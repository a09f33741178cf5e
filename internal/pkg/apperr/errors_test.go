package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestFromStore(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, FromStore(ctx, nil))
	assert.ErrorIs(t, FromStore(ctx, errors.New("dial tcp")), ErrStoreUnavailable)
	assert.ErrorIs(t, FromStore(ctx, fmt.Errorf("scan: %w", context.DeadlineExceeded)), ErrQueryTimeout)

	nf := NotFound("listing")
	assert.Equal(t, nf, FromStore(ctx, nf), "classified errors pass through")

	expired, cancel := context.WithTimeout(ctx, time.Nanosecond)
	defer cancel()
	<-expired.Done()
	assert.ErrorIs(t, FromStore(expired, errors.New("driver: bad connection")), ErrQueryTimeout)
}

func TestStatusCodeAndMessage(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{InvalidQuery("limit must be positive"), fiber.StatusBadRequest},
		{InvalidArgument("groupBy"), fiber.StatusBadRequest},
		{NotFound("listing"), fiber.StatusNotFound},
		{fmt.Errorf("%w: refused", ErrStoreUnavailable), fiber.StatusServiceUnavailable},
		{fmt.Errorf("%w: slow", ErrQueryTimeout), fiber.StatusGatewayTimeout},
		{errors.New("nil map write"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, StatusCode(tc.err), tc.err.Error())
	}
	assert.Equal(t, "invalid query: limit must be positive", Message(InvalidQuery("limit must be positive")))
	assert.Equal(t, "Internal Server Error", Message(errors.New("nil map write")))
}
