package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TranscriptionStatusProcessing = "processing"
	TranscriptionStatusCompleted  = "completed"
	TranscriptionStatusFailed     = "failed"
)

// Transcription is a processed audio consultation owned by a user.
type Transcription struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"not null;index" json:"user_id"`
	Title            string         `gorm:"type:varchar(255)" json:"title"`
	OriginalFileName string         `gorm:"type:varchar(255)" json:"original_file_name"`
	DurationSeconds  int            `gorm:"not null;default:0" json:"duration_seconds"`
	Status           string         `gorm:"type:varchar(20);not null;default:'processing';index" json:"status"`
	Text             string         `gorm:"type:longtext" json:"text"`
	CreatedAt        time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
