package repository

import (
	"time"

	"github.com/condutamedx/medx-backend/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByIDWithPlan(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByResetToken(tokenHash string, now time.Time) (*models.User, error)
	Update(user *models.User) error
	Updates(user *models.User, updates map[string]interface{}) error
	Delete(id uint) error
	ListWithPlan() ([]models.User, error)
	CountCreatedSince(since time.Time) (int64, error)
}

// PlanRepository defines the interface for plan-related database operations
type PlanRepository interface {
	Create(plan *models.Plan) error
	GetByID(id uint) (*models.Plan, error)
	Update(plan *models.Plan) error
	Delete(id uint) error
	ListByPrice() ([]models.Plan, error)
}

// TranscriptionRepository defines the interface for transcription-related
// database operations
type TranscriptionRepository interface {
	GetByID(id uint) (*models.Transcription, error)
	Update(t *models.Transcription) error
	Delete(id uint) error
	Search(searchTerm string, page, limit int) ([]models.Transcription, int64, error)
}

// HistoryRepository defines the interface for assistant-history database
// operations
type HistoryRepository interface {
	GetByID(id uint) (*models.AssistantHistory, error)
	GetByIDForUser(id uint, userID uint) (*models.AssistantHistory, error)
	ListByUser(userID uint, page, limit int) ([]models.AssistantHistory, int64, error)
	SearchByOwner(searchTerm string, page, limit int) ([]models.AssistantHistory, int64, error)
}

// SettingRepository defines the interface for system settings
type SettingRepository interface {
	List() ([]models.Setting, error)
	GetByKey(key string) (*models.Setting, error)
	UpdateValue(key, value string) (*models.Setting, error)
}
