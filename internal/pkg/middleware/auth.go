package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/condutamedx/medx-backend/app/models"
	"github.com/condutamedx/medx-backend/internal/pkg/security"
	"github.com/condutamedx/medx-backend/internal/pkg/usercontext"
)

// UserContextMiddleware resolves an optional Bearer token into a UserContext.
// Invalid or missing tokens leave the request anonymous; route guards decide
// whether that is acceptable.
func UserContextMiddleware(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		if claims, err := security.ParseToken(strings.TrimSpace(token)); err == nil {
			usercontext.SetUserContext(c, usercontext.UserContext{
				UserID:     claims.UserID,
				Email:      claims.Email,
				IsLoggedIn: true,
				IsAdmin:    claims.Role == models.ROLE_ADMIN,
			})
		}
	}
	return c.Next()
}

// RequireAuth ensures an authenticated caller and returns JSON 401 otherwise.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.GetUserContext(c).IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}

// RequireAdmin ensures an authenticated admin caller.
func RequireAdmin(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	if !userCtx.IsAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "admin role required",
		})
	}
	return c.Next()
}
