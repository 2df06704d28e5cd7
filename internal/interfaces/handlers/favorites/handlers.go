package favorites

import (
	listsvc "botsales-backend/internal/application/listings"
	"botsales-backend/internal/middleware"
	"botsales-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *listsvc.Service
}

// POST /api/v1/favorites/:listing_id/toggle
func (h *Handlers) Toggle(c *fiber.Ctx) error {
	listingID := c.Params("listing_id")
	on, err := h.Service.ToggleFavorite(middleware.ActingUserID(c), listingID)
	if err != nil {
		return response.FromError(c, err)
	}
	msg := "Removed from favorites"
	if on {
		msg = "Added to favorites"
	}
	return response.Success(c, msg, fiber.Map{"listingId": listingID, "favorited": on}, nil)
}

// GET /api/v1/favorites
func (h *Handlers) List(c *fiber.Ctx) error {
	listings := h.Service.GetFavoriteListings(middleware.ActingUserID(c))
	return response.Success(c, "Favorites fetched successfully", listings, fiber.Map{"total": len(listings)})
}
