package controllers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/condutamedx/medx-backend/app/models"
	"github.com/condutamedx/medx-backend/app/repository"
	"github.com/condutamedx/medx-backend/internal/pkg/cache"
	"github.com/condutamedx/medx-backend/internal/pkg/database"
	"github.com/condutamedx/medx-backend/internal/pkg/subscription"
)

const dashboardStatsCacheKey = "admin:dashboard_stats"
const dashboardStatsCacheTTL = time.Minute

type dashboardStats struct {
	TotalRevenue        string `json:"total_revenue"`
	MonthlyRevenue      string `json:"monthly_revenue"`
	ActiveSubscriptions int64  `json:"active_subscriptions"`
	NewUsersThisMonth   int64  `json:"new_users_this_month"`
}

// HandleAdminDashboard returns aggregate revenue and signup statistics.
// Results are cached for a minute, the queries scan the whole orders table.
func HandleAdminDashboard(c *fiber.Ctx) error {
	if cached, err := cache.Get(dashboardStatsCacheKey); err == nil && cached != "" {
		var stats dashboardStats
		if json.Unmarshal([]byte(cached), &stats) == nil {
			return c.JSON(stats)
		}
	}

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	subRepo := subscription.NewRepository(database.GetDB())
	totalRevenue, err := subRepo.SumApprovedRevenue(nil)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to compute revenue")
	}
	monthlyRevenue, err := subRepo.SumApprovedRevenue(&startOfMonth)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to compute revenue")
	}
	activeSubs, err := subRepo.CountActiveSubscribers(now)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count subscribers")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	newUsers, err := userRepo.CountCreatedSince(startOfMonth)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count users")
	}

	stats := dashboardStats{
		TotalRevenue:        totalRevenue.StringFixed(2),
		MonthlyRevenue:      monthlyRevenue.StringFixed(2),
		ActiveSubscriptions: activeSubs,
		NewUsersThisMonth:   newUsers,
	}

	if payload, err := json.Marshal(stats); err == nil {
		_ = cache.Set(dashboardStatsCacheKey, string(payload), dashboardStatsCacheTTL)
	}
	return c.JSON(stats)
}

// HandleAdminListUsers returns all users with their plan. Password hashes and
// reset tokens never serialize (json:"-" on the model).
func HandleAdminListUsers(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetUserRepository()
	users, err := repo.ListWithPlan()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list users")
	}
	return c.JSON(users)
}

type adminUserUpdateRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

// HandleAdminUpdateUser updates profile fields. The password can never be
// changed through this route; HandleAdminUpdateUserPassword exists for that.
func HandleAdminUpdateUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid user id")
	}

	var req adminUserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) > 0 {
		if err := repo.Updates(user, updates); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update user")
		}
	}
	return c.JSON(user)
}

type adminPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// HandleAdminUpdateUserPassword lets an admin set a user's password directly.
func HandleAdminUpdateUserPassword(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid user id")
	}

	var req adminPasswordRequest
	if err := c.BodyParser(&req); err != nil || len(req.NewPassword) < 6 {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", "The new password is required and must be at least 6 characters long")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	hashed, err := models.HashPassword(req.NewPassword)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to hash password")
	}
	if err := repo.Updates(user, map[string]interface{}{
		"password":               hashed,
		"reset_password_token":   "",
		"reset_password_expires": nil,
	}); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update password")
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// HandleAdminDeleteUser soft deletes a user account.
func HandleAdminDeleteUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid user id")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := repo.GetByID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}
	if err := repo.Delete(uint(id)); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete user")
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

type assignPlanRequest struct {
	PlanID *uint `json:"plan_id"`
}

// assignPlanChanges computes the expiry and the column updates for a direct
// plan assignment. Re-assigning the plan the user already holds while it is
// still active extends from the current expiry; anything else starts from
// now. Usage counters reset either way.
func assignPlanChanges(user *models.User, plan *models.Plan, now time.Time) (time.Time, map[string]interface{}) {
	base := now
	if user.PlanID != nil && *user.PlanID == plan.ID && user.PlanExpiresAt != nil && user.PlanExpiresAt.After(now) {
		base = *user.PlanExpiresAt
	}
	expiresAt := base.AddDate(0, 0, plan.DurationInDays)
	return expiresAt, map[string]interface{}{
		"plan_id":                    plan.ID,
		"plan_expires_at":            expiresAt,
		"transcriptions_used_count":  0,
		"transcription_minutes_used": 0,
		"agent_uses_used":            0,
		"assistant_uses_used":        0,
	}
}

// removePlanChanges clears a user's plan assignment.
func removePlanChanges() map[string]interface{} {
	return map[string]interface{}{
		"plan_id":         nil,
		"plan_expires_at": nil,
	}
}

// HandleAdminAssignPlan assigns (or removes, when plan_id is null) a plan
// without going through billing.
func HandleAdminAssignPlan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid user id")
	}

	var req assignPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repos := repository.GetGlobalFactory()
	user, err := repos.GetUserRepository().GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	if req.PlanID == nil {
		if err := repos.GetUserRepository().Updates(user, removePlanChanges()); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to remove plan")
		}
		return c.JSON(fiber.Map{"message": "Plan removed successfully"})
	}

	plan, err := repos.GetPlanRepository().GetByID(*req.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Plan not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load plan")
	}

	expiresAt, updates := assignPlanChanges(user, plan, time.Now())
	if err := repos.GetUserRepository().Updates(user, updates); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to assign plan")
	}

	return c.JSON(fiber.Map{
		"message":    "Plan assigned successfully",
		"plan":       plan.Name,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})
}
