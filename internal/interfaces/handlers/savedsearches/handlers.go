package savedsearches

import (
	"botsales-backend/internal/application/savedsearch"
	"botsales-backend/internal/domain"
	"botsales-backend/internal/middleware"
	"botsales-backend/internal/pkg/response"
	"botsales-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Registry *savedsearch.Registry
	Search   savedsearch.Searcher
}

type createRequest struct {
	Name        string               `json:"name"`
	Filters     domain.SearchFilters `json:"filters"`
	EmailAlerts bool                 `json:"emailAlerts"`
}

// GET /api/v1/saved-searches
func (h *Handlers) List(c *fiber.Ctx) error {
	return response.Success(c, "Saved searches fetched successfully", h.Registry.List(middleware.ActingUserID(c)), nil)
}

// POST /api/v1/saved-searches
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if err := validation.SearchFilters(req.Filters); err != nil {
		return response.FromError(c, err)
	}
	s := h.Registry.Add(middleware.ActingUserID(c), req.Name, req.Filters, req.EmailAlerts)
	return response.SuccessCreated(c, "Search saved", s, nil)
}

// DELETE /api/v1/saved-searches/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	if !h.Registry.Remove(middleware.ActingUserID(c), c.Params("id")) {
		return response.FromError(c, domain.ErrSavedSearchNotFound)
	}
	return response.Success(c, "Saved search removed", fiber.Map{"id": c.Params("id")}, nil)
}

// PATCH /api/v1/saved-searches/:id/alerts
func (h *Handlers) ToggleAlerts(c *fiber.Ctx) error {
	s, ok := h.Registry.ToggleEmailAlerts(middleware.ActingUserID(c), c.Params("id"))
	if !ok {
		return response.FromError(c, domain.ErrSavedSearchNotFound)
	}
	return response.Success(c, "Email alerts updated", s, nil)
}

// GET /api/v1/saved-searches/:id/results
func (h *Handlers) Results(c *fiber.Ctx) error {
	listings, err := h.Registry.Replay(middleware.ActingUserID(c), c.Params("id"), h.Search)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Saved search results fetched successfully", listings, fiber.Map{"total": len(listings)})
}
