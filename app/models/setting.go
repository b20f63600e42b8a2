package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const SensitiveValueMask = "********"

// Setting is a key/value system setting. Sensitive values (API keys etc.)
// are stored in clear but masked on every read path.
type Setting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"column:setting_key;size:255;not null;uniqueIndex" json:"key" validate:"required,min=1,max=255"`
	Value       string    `gorm:"type:text" json:"value"`
	Type        string    `gorm:"size:50;not null;default:'string'" json:"type"` // string, boolean, integer, float
	IsSensitive bool      `gorm:"default:false" json:"is_sensitive"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Setting) Validate() error {
	v := validator.New()

	return v.Struct(s)
}

// MaskedValue returns the value safe for API responses.
func (s *Setting) MaskedValue() string {
	if s.IsSensitive {
		return SensitiveValueMask
	}
	return s.Value
}
