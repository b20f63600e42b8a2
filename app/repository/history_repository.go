package repository

import (
	"strings"

	"github.com/condutamedx/medx-backend/app/models"
	"gorm.io/gorm"
)

// historyRepository implements the HistoryRepository interface
type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new assistant-history repository instance
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) GetByID(id uint) (*models.AssistantHistory, error) {
	var history models.AssistantHistory
	err := r.db.
		Preload("Assistant").Preload("Transcription").
		First(&history, id).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}

// GetByIDForUser loads a history record only when it belongs to the user.
func (r *historyRepository) GetByIDForUser(id uint, userID uint) (*models.AssistantHistory, error) {
	var history models.AssistantHistory
	err := r.db.
		Preload("Assistant").Preload("Transcription").
		Where("id = ? AND user_id = ?", id, userID).
		First(&history).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *historyRepository) ListByUser(userID uint, page, limit int) ([]models.AssistantHistory, int64, error) {
	query := r.db.Model(&models.AssistantHistory{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var history []models.AssistantHistory
	err := query.
		Preload("Assistant").Preload("Transcription").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&history).Error
	return history, total, err
}

// SearchByOwner lists history records newest first, optionally filtered by
// the owning user's name or email.
func (r *historyRepository) SearchByOwner(searchTerm string, page, limit int) ([]models.AssistantHistory, int64, error) {
	query := r.db.Model(&models.AssistantHistory{}).
		Joins("LEFT JOIN users ON users.id = assistant_histories.user_id")

	if term := strings.TrimSpace(searchTerm); term != "" {
		pattern := "%" + term + "%"
		query = query.Where("users.name LIKE ? OR users.email LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var history []models.AssistantHistory
	err := query.
		Preload("User").Preload("Assistant").Preload("Transcription").
		Order("assistant_histories.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&history).Error
	return history, total, err
}
