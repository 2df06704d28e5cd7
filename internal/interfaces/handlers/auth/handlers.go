package auth

import (
	"strings"

	usersvc "botsales-backend/internal/application/user"
	"botsales-backend/internal/middleware"
	"botsales-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Users    *usersvc.Service
	Sessions *middleware.SessionStore
}

type LoginRequest struct {
	Email string `json:"email"`
}

// Login POST /api/v1/auth/login. Demo sign-in by email: unknown emails are registered.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return response.Error(c, "Email is required", fiber.StatusBadRequest, nil)
	}
	u, created, err := h.Users.Login(req.Email)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Sessions.Login(c, middleware.SessionUser{UserID: u.ID, Name: u.Name, Email: u.Email}); err != nil {
		return err
	}
	log.Info().Str("user_id", u.ID).Bool("created", created).Msg("Login successful")
	return response.Success(c, "Login successful", fiber.Map{"user": u, "created": created}, nil)
}

// Me GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	su := middleware.CurrentUser(c)
	if su == nil {
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	u, err := h.Users.GetUser(su.UserID)
	if err != nil {
		log.Info().Str("user_id", su.UserID).Msg("auth/me: session user no longer exists")
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": u}, nil)
}

// Logout DELETE /api/v1/auth/logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if err := h.Sessions.Logout(c); err != nil {
		return err
	}
	return response.Success(c, "Logged out successfully", nil, nil)
}
