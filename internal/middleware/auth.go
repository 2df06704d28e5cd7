package middleware

import (
	"botsales-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth rejects requests without a session user with the standard 401 body.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// ActingUserID is the id of the logged-in user, "" when anonymous.
func ActingUserID(c *fiber.Ctx) string {
	if u := CurrentUser(c); u != nil {
		return u.UserID
	}
	return ""
}
