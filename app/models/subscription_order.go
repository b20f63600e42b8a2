package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusApproved  = "approved"
	OrderStatusCancelled = "cancelled"
)

// SubscriptionOrder is the local record of a provider checkout. Its UUID is
// embedded as the provider external_reference so webhooks can be correlated
// back. Orders are never deleted, they are the billing audit trail.
type SubscriptionOrder struct {
	ID             string          `gorm:"type:char(36);primaryKey" json:"id"`
	UserID         uint            `gorm:"not null;index" json:"user_id"`
	PlanID         uint            `gorm:"not null;index" json:"plan_id"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status         string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PreapprovalID  string          `gorm:"type:varchar(191);default:null;index" json:"preapproval_id"`
	PaymentID      string          `gorm:"type:varchar(191);default:null" json:"payment_id"`
	RawPayloadJSON string          `gorm:"type:longtext" json:"-"`
	CreatedAt      time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Plan *Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (o *SubscriptionOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// IsTerminal reports whether no further status transition is expected.
// Cancelled has no way out; approved only ever moves to cancelled via the
// provider, never back to pending.
func (o *SubscriptionOrder) IsTerminal() bool {
	return o.Status == OrderStatusCancelled
}
