package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h fiber.Handler) (int, map[string]interface{}) {
	app := fiber.New()
	app.Get("/", h)
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestPaginated(t *testing.T) {
	code, out := do(t, func(c *fiber.Ctx) error {
		return Paginated(c, "Listings fetched successfully", []int{1, 2}, Page{Total: 7, Limit: 2, Skip: 4})
	})
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, map[string]interface{}{"total": 7.0, "limit": 2.0, "skip": 4.0}, out["metadata"])
}

func TestSuccessCreated_EmptyMetadata(t *testing.T) {
	code, out := do(t, func(c *fiber.Ctx) error {
		return SuccessCreated(c, "Listing created successfully", fiber.Map{"id": "x"}, nil)
	})
	assert.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, map[string]interface{}{}, out["metadata"])
}

func TestError(t *testing.T) {
	code, out := do(t, func(c *fiber.Ctx) error {
		return Error(c, "store unavailable", fiber.StatusServiceUnavailable, nil)
	})
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
	assert.Equal(t, "error", out["status"])
	e := out["error"].(map[string]interface{})
	assert.Equal(t, "store unavailable", e["message"])
	assert.Equal(t, 503.0, e["statusCode"])
}
