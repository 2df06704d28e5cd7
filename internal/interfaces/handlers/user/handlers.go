package user

import (
	listsvc "botsales-backend/internal/application/listings"
	usersvc "botsales-backend/internal/application/user"
	"botsales-backend/internal/domain"
	"botsales-backend/internal/middleware"
	"botsales-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service        *usersvc.Service
	ListingService *listsvc.Service
	Sessions       *middleware.SessionStore
}

// POST /api/v1/users/register creates the user and signs them in.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req usersvc.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	u, err := h.Service.Register(req)
	if err != nil {
		return response.FromError(c, err)
	}
	if h.Sessions != nil {
		if err := h.Sessions.Login(c, sessionUser(u)); err != nil {
			return err
		}
	}
	log.Info().Str("user_id", u.ID).Msg("User registered")
	return response.SuccessCreated(c, "User registered successfully", fiber.Map{"user": u}, nil)
}

// GET /api/v1/users/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	u, err := h.Service.GetUser(c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "User fetched successfully", fiber.Map{"user": u}, nil)
}

// PATCH /api/v1/users/me
func (h *Handlers) UpdateMe(c *fiber.Ctx) error {
	var p usersvc.ProfilePatch
	if err := c.BodyParser(&p); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	u, err := h.Service.UpdateProfile(middleware.ActingUserID(c), p)
	if err != nil {
		return response.FromError(c, err)
	}
	if h.Sessions != nil {
		if err := h.Sessions.Refresh(c.UserContext(), middleware.GetSessionID(c), sessionUser(u)); err != nil {
			log.Warn().Err(err).Str("user_id", u.ID).Msg("Failed to refresh session after profile update")
		}
	}
	return response.Success(c, "Profile updated successfully", fiber.Map{"user": u}, nil)
}

// GET /api/v1/users/:id/listings returns the seller's listings in every status.
func (h *Handlers) Listings(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.Service.GetUser(id); err != nil {
		return response.FromError(c, err)
	}
	listings := h.ListingService.GetListingsByUser(id)
	return response.Success(c, "Listings fetched successfully", listings, fiber.Map{"total": len(listings)})
}

func sessionUser(u domain.User) middleware.SessionUser {
	return middleware.SessionUser{UserID: u.ID, Name: u.Name, Email: u.Email}
}
