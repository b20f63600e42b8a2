package subscription

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/condutamedx/medx-backend/app/models"
	"github.com/condutamedx/medx-backend/internal/pkg/mercadopago"
)

const providerName = "mercadopago"

// ErrPaymentUnavailable is returned when the payment integration is not
// configured. Surfaced to callers as a 503, never retried silently.
var ErrPaymentUnavailable = errors.New("payment service is currently unavailable")

// Provider is the slice of the payment API the reconciler consumes.
type Provider interface {
	IsConfigured() bool
	CreatePreapproval(ctx context.Context, req *mercadopago.PreapprovalRequest) (*mercadopago.Preapproval, error)
	GetPreapproval(ctx context.Context, id string) (*mercadopago.Preapproval, error)
}

// Service owns the subscription lifecycle: checkout creation, webhook
// reconciliation and on-demand status polling. Both the webhook and the poll
// entry points funnel into the same reconcile step.
type Service struct {
	repo     Repository
	provider Provider
	cfg      Config
}

// NewService creates a subscription service from injected dependencies.
func NewService(repo Repository, provider Provider, cfg Config) *Service {
	return &Service{repo: repo, provider: provider, cfg: cfg}
}

// NewServiceFromDB creates a subscription service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, provider Provider, cfg Config) *Service {
	return NewService(NewRepository(db), provider, cfg)
}

// CreateCheckout creates a pending order and a provider hosted checkout for
// it. The order UUID travels as external_reference so webhooks can find the
// order again.
func (s *Service) CreateCheckout(ctx context.Context, userID, planID uint) (*CheckoutResult, error) {
	if !s.provider.IsConfigured() {
		log.Printf("[Checkout] checkout requested but the payment provider is not configured")
		return nil, ErrPaymentUnavailable
	}

	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	plan, err := s.repo.GetPlanByID(planID)
	if err != nil {
		return nil, err
	}

	order := &models.SubscriptionOrder{
		UserID:      user.ID,
		PlanID:      plan.ID,
		TotalAmount: plan.Price,
		Status:      models.OrderStatusPending,
	}
	if err := s.repo.CreateOrder(order); err != nil {
		return nil, err
	}

	price, _ := plan.Price.Float64()
	now := time.Now()
	req := &mercadopago.PreapprovalRequest{
		Reason:            fmt.Sprintf("CondutaMedX subscription - plan %s", plan.Name),
		ExternalReference: order.ID,
		PayerEmail:        user.Email,
		AutoRecurring: mercadopago.AutoRecurring{
			Frequency:         1,
			FrequencyType:     "months",
			TransactionAmount: price,
			CurrencyID:        s.cfg.CurrencyID,
			StartDate:         mercadopago.FormatDate(now),
			EndDate:           mercadopago.FormatDate(now.AddDate(1, 0, 0)),
		},
		BackURL:         s.cfg.FrontendURL + "/dashboard?subscription_status=success",
		NotificationURL: s.cfg.BackendURL + "/api/v1/subscriptions/webhook",
		Status:          models.OrderStatusPending,
	}

	pre, err := s.provider.CreatePreapproval(ctx, req)
	if err != nil {
		log.Printf("[Checkout] provider checkout creation failed for order %s: %v", order.ID, err)
		return nil, fmt.Errorf("failed to reach the payment service: %w", err)
	}

	if err := s.repo.UpdateOrder(order, map[string]interface{}{"preapproval_id": pre.ID}); err != nil {
		return nil, err
	}

	return &CheckoutResult{
		Order:         order,
		CheckoutURL:   pre.InitPoint,
		PreapprovalID: pre.ID,
	}, nil
}

// ProcessWebhook handles one provider push notification. Domain-level
// problems (unknown order, unrecognized type, provider hiccups) are swallowed
// so the HTTP layer can always answer 200 and the provider's own retry policy
// stays the recovery mechanism.
func (s *Service) ProcessWebhook(ctx context.Context, event WebhookEvent, rawBody []byte) error {
	eventID := strings.TrimSpace(event.ID)
	if eventID == "" {
		sum := sha256.Sum256(rawBody)
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	created, stored, err := s.repo.CreateWebhookEventIfNotExists(&models.PaymentWebhookEvent{
		Provider:        providerName,
		ProviderEventID: eventID,
		EventType:       event.Type,
		PayloadJSON:     string(rawBody),
	})
	if err != nil {
		return err
	}
	if !created && stored.ProcessedAt != nil {
		log.Printf("[Webhook] duplicate event %s already processed, skipping", eventID)
		return nil
	}

	if event.Type != "preapproval" {
		// The provider pushes other event kinds this system does not care about.
		return s.repo.MarkWebhookProcessed(stored.ID, "")
	}

	// Always re-fetch live state; webhook delivery races state changes and the
	// embedded payload is not trustworthy.
	pre, err := s.provider.GetPreapproval(ctx, event.Data.ID)
	if err != nil {
		// Transient failure: leave the ledger entry unprocessed so the
		// provider's redelivery (or a later poll) can retry.
		log.Printf("[Webhook] could not fetch preapproval %s: %v", event.Data.ID, err)
		return nil
	}

	if strings.TrimSpace(pre.ExternalReference) == "" {
		log.Printf("[Webhook] preapproval %s carries no external_reference, ignoring", pre.ID)
		return s.repo.MarkWebhookProcessed(stored.ID, "")
	}

	order, err := s.repo.GetOrderByID(pre.ExternalReference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[Webhook] order %s not found, ignoring event", pre.ExternalReference)
			return s.repo.MarkWebhookProcessed(stored.ID, "")
		}
		return err
	}

	if err := s.reconcile(order.ID, pre); err != nil {
		log.Printf("[Webhook] reconciliation failed for order %s: %v", order.ID, err)
		return nil
	}
	return s.repo.MarkWebhookProcessed(stored.ID, "")
}

// CheckOrderStatus returns the order after syncing it against the provider.
// Approved is a resting state for this check: no remote call is made.
func (s *Service) CheckOrderStatus(ctx context.Context, orderID string) (*models.SubscriptionOrder, error) {
	order, err := s.repo.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == models.OrderStatusApproved {
		return order, nil
	}
	if order.PreapprovalID == "" {
		return order, nil
	}

	pre, err := s.provider.GetPreapproval(ctx, order.PreapprovalID)
	if err != nil {
		// Degrade to "no change" and let a later webhook or poll catch up.
		log.Printf("[Subscription] status check for order %s could not reach provider: %v", order.ID, err)
		return order, nil
	}

	if err := s.reconcile(order.ID, pre); err != nil {
		return nil, err
	}
	return s.repo.GetOrderByID(orderID)
}

// reconcile applies a freshly fetched provider status to one order inside a
// single transaction, with the order row locked to serialize concurrent
// deliveries for the same order.
func (s *Service) reconcile(orderID string, pre *mercadopago.Preapproval) error {
	return s.repo.Transaction(func(tx Repository) error {
		order, err := tx.GetOrderByIDForUpdate(orderID)
		if err != nil {
			return err
		}

		newStatus := MapPreapprovalStatus(pre.Status)
		raw := string(pre.Raw)

		if newStatus == order.Status {
			// Self-loop: keep the audit payload, no entitlement side effects.
			// Reapplying an already-applied status must never extend a plan twice.
			return tx.UpdateOrder(order, map[string]interface{}{"raw_payload_json": raw})
		}
		if !allowedTransition(order.Status, newStatus) {
			log.Printf("[Subscription] ignoring %s -> %s for order %s", order.Status, newStatus, order.ID)
			return tx.UpdateOrder(order, map[string]interface{}{"raw_payload_json": raw})
		}

		if err := tx.UpdateOrder(order, map[string]interface{}{
			"status":           newStatus,
			"payment_id":       pre.ID,
			"raw_payload_json": raw,
		}); err != nil {
			return err
		}

		switch newStatus {
		case models.OrderStatusApproved:
			return s.applyApproval(tx, order)
		case models.OrderStatusCancelled:
			return s.applyCancellation(tx, order)
		}
		return nil
	})
}

// applyApproval extends the user's entitlement window. Renewals extend from
// the later of now or the current expiry so unused paid time is never cut,
// and a lapsed expiry never serves as a stale base. The user row is locked:
// two different approved orders for the same user must not race the
// expiry read-modify-write.
func (s *Service) applyApproval(tx Repository, order *models.SubscriptionOrder) error {
	user, err := tx.GetUserByIDForUpdate(order.UserID)
	if err != nil {
		return err
	}
	plan, err := tx.GetPlanByID(order.PlanID)
	if err != nil {
		return err
	}

	now := time.Now()
	base := now
	if user.PlanExpiresAt != nil && user.PlanExpiresAt.After(now) {
		base = *user.PlanExpiresAt
	}
	newExpiry := base.AddDate(0, 0, plan.DurationInDays)

	log.Printf("[Subscription] plan %q activated/renewed for user %s until %s", plan.Name, user.Email, newExpiry.Format(time.RFC3339))
	return tx.UpdateUser(user, map[string]interface{}{
		"plan_id":                    plan.ID,
		"plan_expires_at":            newExpiry,
		"transcriptions_used_count":  0,
		"transcription_minutes_used": 0,
		"agent_uses_used":            0,
		"assistant_uses_used":        0,
	})
}

// applyCancellation revokes the entitlement at the instant the cancellation
// is observed, not at period end.
func (s *Service) applyCancellation(tx Repository, order *models.SubscriptionOrder) error {
	user, err := tx.GetUserByIDForUpdate(order.UserID)
	if err != nil {
		return err
	}
	log.Printf("[Subscription] subscription cancelled for user %s, plan removed", user.Email)
	return tx.UpdateUser(user, map[string]interface{}{
		"plan_id":         nil,
		"plan_expires_at": time.Now(),
	})
}

// ListOrders returns a page of orders, newest first.
func (s *Service) ListOrders(ctx context.Context, filter OrderFilter) (*OrderPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	orders, total, err := s.repo.ListOrders(filter)
	if err != nil {
		return nil, err
	}
	return &OrderPage{
		Orders:      orders,
		Total:       total,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		CurrentPage: filter.Page,
	}, nil
}

// GetUserActivePlan returns the user's active entitlement, or nil when none.
// A lapsed plan reference is cleared opportunistically here (lazy expiry,
// there is no background sweep).
func (s *Service) GetUserActivePlan(ctx context.Context, userID uint) (*ActivePlan, error) {
	user, err := s.repo.GetUserWithPlan(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if user.HasActivePlan(now) && user.Plan != nil {
		remaining := int(math.Ceil(user.PlanExpiresAt.Sub(now).Hours() / 24))
		return &ActivePlan{
			Plan:          user.Plan,
			ExpiresAt:     *user.PlanExpiresAt,
			RemainingDays: remaining,
		}, nil
	}

	if user.PlanID != nil {
		if err := s.repo.UpdateUser(user, map[string]interface{}{
			"plan_id":         nil,
			"plan_expires_at": nil,
		}); err != nil {
			return nil, err
		}
	}
	return nil, nil
}
