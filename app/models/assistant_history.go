package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	HistoryStatusProcessing = "processing"
	HistoryStatusCompleted  = "completed"
	HistoryStatusFailed     = "failed"
)

// AssistantHistory records one assistant run against a transcription together
// with the generated output text.
type AssistantHistory struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	AssistantID     uint           `gorm:"not null;index" json:"assistant_id"`
	TranscriptionID uint           `gorm:"not null;index" json:"transcription_id"`
	Status          string         `gorm:"type:varchar(20);not null;default:'processing';index" json:"status"`
	OutputText      string         `gorm:"type:longtext" json:"output_text"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	User          *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Assistant     *Assistant     `gorm:"foreignKey:AssistantID" json:"assistant,omitempty"`
	Transcription *Transcription `gorm:"foreignKey:TranscriptionID" json:"transcription,omitempty"`
}
