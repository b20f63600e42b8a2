package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/condutamedx/medx-backend/app/models"
	"github.com/condutamedx/medx-backend/app/repository"
)

// HandleAdminListPlans returns all plans ordered by price.
func HandleAdminListPlans(c *fiber.Ctx) error {
	plans, err := repository.GetGlobalFactory().GetPlanRepository().ListByPrice()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list plans")
	}
	return c.JSON(plans)
}

// HandleAdminCreatePlan creates a new plan.
func HandleAdminCreatePlan(c *fiber.Ctx) error {
	var plan models.Plan
	if err := c.BodyParser(&plan); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := plan.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repository.GetGlobalFactory().GetPlanRepository().Create(&plan); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create plan")
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

// HandleAdminUpdatePlan updates an existing plan.
func HandleAdminUpdatePlan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid plan id")
	}

	repo := repository.GetGlobalFactory().GetPlanRepository()
	plan, err := repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Plan not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load plan")
	}

	if err := c.BodyParser(plan); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	plan.ID = uint(id)
	if err := plan.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repo.Update(plan); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update plan")
	}
	return c.JSON(plan)
}

// HandleAdminDeletePlan deletes a plan.
func HandleAdminDeletePlan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid plan id")
	}

	repo := repository.GetGlobalFactory().GetPlanRepository()
	if _, err := repo.GetByID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Plan not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load plan")
	}
	if err := repo.Delete(uint(id)); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete plan")
	}
	return c.JSON(fiber.Map{"message": "Plan deleted successfully"})
}

func settingResponse(s *models.Setting) fiber.Map {
	return fiber.Map{
		"id":           s.ID,
		"key":          s.Key,
		"value":        s.MaskedValue(),
		"type":         s.Type,
		"is_sensitive": s.IsSensitive,
		"updated_at":   s.UpdatedAt,
	}
}

// HandleAdminListSettings returns all settings with sensitive values masked.
func HandleAdminListSettings(c *fiber.Ctx) error {
	settings, err := repository.GetGlobalFactory().GetSettingRepository().List()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list settings")
	}

	out := make([]fiber.Map, 0, len(settings))
	for i := range settings {
		out = append(out, settingResponse(&settings[i]))
	}
	return c.JSON(out)
}

type settingUpdateRequest struct {
	Value string `json:"value"`
}

// HandleAdminUpdateSetting updates a setting value by key.
func HandleAdminUpdateSetting(c *fiber.Ctx) error {
	var req settingUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	setting, err := repository.GetGlobalFactory().GetSettingRepository().UpdateValue(c.Params("key"), req.Value)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Setting not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update setting")
	}
	return c.JSON(fiber.Map{
		"message": "Setting updated successfully",
		"setting": settingResponse(setting),
	})
}
