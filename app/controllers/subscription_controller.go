package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/condutamedx/medx-backend/internal/pkg/subscription"
	"github.com/condutamedx/medx-backend/internal/pkg/usercontext"
)

var subscriptionService *subscription.Service

// InitSubscriptionController wires the subscription service built at startup.
func InitSubscriptionController(svc *subscription.Service) {
	subscriptionService = svc
}

type checkoutRequest struct {
	PlanID uint `json:"plan_id"`
}

// HandleCreateCheckout starts a hosted checkout for the authenticated user.
func HandleCreateCheckout(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil || req.PlanID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "plan_id is required")
	}

	result, err := subscriptionService.CreateCheckout(c.Context(), userCtx.UserID, req.PlanID)
	if err != nil {
		if errors.Is(err, subscription.ErrPaymentUnavailable) {
			return jsonError(c, fiber.StatusServiceUnavailable, "payment_unavailable", "The payment service is currently unavailable. Please contact support.")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User or plan not found")
		}
		return jsonError(c, fiber.StatusBadGateway, "provider_error", "Failed to communicate with the payment service")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"checkout_url":   result.CheckoutURL,
		"preapproval_id": result.PreapprovalID,
		"order_id":       result.Order.ID,
	})
}

// HandleSubscriptionWebhook receives provider push notifications. It answers
// 200 for every domain-level outcome; only transport failures should surface
// as non-200, otherwise the provider retries no-ops forever.
func HandleSubscriptionWebhook(c *fiber.Ctx) error {
	var event subscription.WebhookEvent
	if err := c.BodyParser(&event); err != nil {
		log.Printf("[Webhook] unparseable webhook body: %v", err)
		return c.SendStatus(fiber.StatusOK)
	}

	if err := subscriptionService.ProcessWebhook(c.Context(), event, c.Body()); err != nil {
		log.Printf("[Webhook] processing error: %v", err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// HandleOrderStatus returns an order after reconciling it with the provider.
// Non-admins can only look at their own orders.
func HandleOrderStatus(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	orderID := c.Params("id")

	order, err := subscriptionService.CheckOrderStatus(c.Context(), orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Subscription order not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to check order status")
	}
	if !userCtx.IsAdmin && order.UserID != userCtx.UserID {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Subscription order not found")
	}

	return c.JSON(order)
}

// HandleListOrders lists subscription orders. Admins see all orders and may
// filter by user; everyone else sees only their own.
func HandleListOrders(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	page, limit := parsePagination(c)

	filter := subscription.OrderFilter{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}
	if userCtx.IsAdmin {
		filter.UserID = uint(c.QueryInt("user_id", 0))
	} else {
		filter.UserID = userCtx.UserID
	}

	result, err := subscriptionService.ListOrders(c.Context(), filter)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list orders")
	}
	return c.JSON(result)
}

// HandleActivePlan returns the caller's current entitlement, if any.
func HandleActivePlan(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	active, err := subscriptionService.GetUserActivePlan(c.Context(), userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load active plan")
	}
	if active == nil {
		return c.JSON(fiber.Map{"active": false})
	}
	return c.JSON(fiber.Map{
		"active":         true,
		"plan":           active.Plan,
		"expires_at":     active.ExpiresAt,
		"remaining_days": active.RemainingDays,
	})
}
