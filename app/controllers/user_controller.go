package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/condutamedx/medx-backend/app/repository"
	"github.com/condutamedx/medx-backend/internal/pkg/entitlements"
	"github.com/condutamedx/medx-backend/internal/pkg/usercontext"
)

// HandleGetAccount returns the authenticated user's account with the current
// entitlement snapshot.
func HandleGetAccount(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByIDWithPlan(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	snapshot := entitlements.ForUser(user, user.Plan, time.Now())

	return c.JSON(fiber.Map{
		"id":              user.ID,
		"name":            user.Name,
		"email":           user.Email,
		"role":            user.Role,
		"status":          user.Status,
		"plan_id":         user.PlanID,
		"plan_expires_at": formatTimePtr(user.PlanExpiresAt),
		"last_login_at":   formatTimePtr(user.LastLoginAt),
		"created_at":      user.CreatedAt.UTC().Format(time.RFC3339),
		"usage":           snapshot,
	})
}
