package listings

import (
	"strings"

	listsvc "agrowaste-backend/internal/application/listings"
	"agrowaste-backend/internal/application/search"
	"agrowaste-backend/internal/pkg/apperr"
	"agrowaste-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers serve the listing routes. Failures are returned as errors and
// rendered by middleware.ErrorHandler.
type Handlers struct {
	Service *listsvc.Service
	Engine  *search.Engine
}

func parseID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperr.InvalidQuery("%s must be a valid id", name)
	}
	return id, nil
}

// GET /api/v1/listings/search
func (h *Handlers) Search(c *fiber.Ctx) error {
	f, err := search.ParseFilters(c.Queries())
	if err != nil {
		return err
	}
	res, err := h.Engine.Search(c.UserContext(), f)
	if err != nil {
		return err
	}
	return response.Paginated(c, "Listings fetched successfully", res.Listings, response.Page{
		Total: res.Total,
		Limit: res.Limit,
		Skip:  res.Skip,
	})
}

// GET /api/v1/listings/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"), "id")
	if err != nil {
		return err
	}
	l, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Listing fetched successfully", l, nil)
}

// GET /api/v1/listings/producer/:producerId
func (h *Handlers) ListByProducer(c *fiber.Ctx) error {
	id, err := parseID(c.Params("producerId"), "producerId")
	if err != nil {
		return err
	}
	ls, err := h.Service.ListByProducer(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Listings fetched successfully", ls, fiber.Map{"total": len(ls)})
}

// POST /api/v1/listings
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in listsvc.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.InvalidArgument("invalid request body")
	}
	l, err := h.Service.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Listing created successfully", l, nil)
}
