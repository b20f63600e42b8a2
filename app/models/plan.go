package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Plan is a purchasable subscription tier. From the reconciler's point of view
// plans are read-only input.
type Plan struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	Name                  string          `gorm:"type:varchar(100);not null;uniqueIndex" json:"name" validate:"required,min=2,max=100"`
	Description           string          `gorm:"type:text" json:"description"`
	Price                 decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	DurationInDays        int             `gorm:"not null" json:"duration_in_days" validate:"required,gt=0"`
	TranscriptionsLimit   int             `gorm:"not null;default:0" json:"transcriptions_limit"`
	TranscriptionMinutes  int             `gorm:"not null;default:0" json:"transcription_minutes"`
	AgentUsesLimit        int             `gorm:"not null;default:0" json:"agent_uses_limit"`
	AssistantUsesLimit    int             `gorm:"not null;default:0" json:"assistant_uses_limit"`
	IsActive              bool            `gorm:"default:true;index" json:"is_active"`
	CreatedAt             time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Plan) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
