package models

import (
	"time"

	"gorm.io/gorm"
)

// Assistant is a prompt template that turns a transcription into a structured
// medical document. System assistants are managed by admins and shared.
type Assistant struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"type:varchar(150);not null" json:"name"`
	Description       string         `gorm:"type:text" json:"description"`
	Prompt            string         `gorm:"type:longtext" json:"prompt"`
	IsSystemAssistant bool           `gorm:"default:false;index" json:"is_system_assistant"`
	CreatedByID       *uint          `gorm:"index;default:null" json:"created_by_id"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Creator *User `gorm:"foreignKey:CreatedByID" json:"creator,omitempty"`
}
