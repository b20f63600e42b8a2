package subscription

import (
	"strings"

	"github.com/condutamedx/medx-backend/app/models"
)

// Preapproval statuses the provider reports.
const (
	PreapprovalAuthorized = "authorized"
	PreapprovalCancelled  = "cancelled"
	PreapprovalPaused     = "paused"
	PreapprovalPending    = "pending"
)

// MapPreapprovalStatus maps a provider subscription status onto the local
// order status. Total over every input: anything unrecognized is pending.
func MapPreapprovalStatus(externalStatus string) string {
	switch strings.ToLower(strings.TrimSpace(externalStatus)) {
	case PreapprovalAuthorized:
		return models.OrderStatusApproved
	case PreapprovalCancelled, PreapprovalPaused:
		return models.OrderStatusCancelled
	default:
		return models.OrderStatusPending
	}
}

// allowedTransition enforces the order state machine:
// pending -> approved|cancelled, approved -> cancelled, no exit from
// cancelled. Self-loops are handled before this check.
func allowedTransition(from, to string) bool {
	switch from {
	case models.OrderStatusPending:
		return to == models.OrderStatusApproved || to == models.OrderStatusCancelled
	case models.OrderStatusApproved:
		return to == models.OrderStatusCancelled
	default:
		return false
	}
}
