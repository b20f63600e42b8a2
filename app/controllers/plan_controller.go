package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/condutamedx/medx-backend/app/models"
	"github.com/condutamedx/medx-backend/app/repository"
)

// HandleListPlans returns the active plans available for subscription.
func HandleListPlans(c *fiber.Ctx) error {
	plans, err := repository.GetGlobalFactory().GetPlanRepository().ListByPrice()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list plans")
	}

	active := make([]models.Plan, 0, len(plans))
	for _, plan := range plans {
		if plan.IsActive {
			active = append(active, plan)
		}
	}
	return c.JSON(active)
}
