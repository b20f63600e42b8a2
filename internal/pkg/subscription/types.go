package subscription

import (
	"time"

	"github.com/condutamedx/medx-backend/app/models"
	"github.com/condutamedx/medx-backend/internal/pkg/env"
)

// WebhookEvent is the inbound provider push body. The top-level ID, when the
// provider sends one, becomes the idempotency key; Data.ID is the preapproval
// the notification is about.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// CheckoutResult is what a newly created hosted checkout returns to the caller.
type CheckoutResult struct {
	Order         *models.SubscriptionOrder `json:"order"`
	CheckoutURL   string                    `json:"checkout_url"`
	PreapprovalID string                    `json:"preapproval_id"`
}

// OrderFilter narrows and paginates order listings.
type OrderFilter struct {
	UserID uint
	Status string
	Page   int
	Limit  int
}

// OrderPage is one page of order listings.
type OrderPage struct {
	Orders      []models.SubscriptionOrder `json:"orders"`
	Total       int64                      `json:"total"`
	TotalPages  int                        `json:"total_pages"`
	CurrentPage int                        `json:"current_page"`
}

// ActivePlan describes a user's current entitlement.
type ActivePlan struct {
	Plan          *models.Plan `json:"plan"`
	ExpiresAt     time.Time    `json:"expires_at"`
	RemainingDays int          `json:"remaining_days"`
}

// Config carries the checkout wiring that used to live in scattered env
// lookups. Built once at startup and passed to the service.
type Config struct {
	FrontendURL string
	BackendURL  string
	CurrencyID  string
}

func ConfigFromEnv() Config {
	return Config{
		FrontendURL: env.GetEnv("FRONTEND_URL", "http://localhost:3000"),
		BackendURL:  env.GetEnv("BACKEND_URL", "http://localhost:4000"),
		CurrencyID:  env.GetEnv("MERCADO_PAGO_CURRENCY", "BRL"),
	}
}
