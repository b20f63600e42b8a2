package repository

import (
	"strings"

	"github.com/condutamedx/medx-backend/app/models"
	"gorm.io/gorm"
)

// transcriptionRepository implements the TranscriptionRepository interface
type transcriptionRepository struct {
	db *gorm.DB
}

// NewTranscriptionRepository creates a new transcription repository instance
func NewTranscriptionRepository(db *gorm.DB) TranscriptionRepository {
	return &transcriptionRepository{db: db}
}

func (r *transcriptionRepository) GetByID(id uint) (*models.Transcription, error) {
	var t models.Transcription
	err := r.db.Preload("User").First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transcriptionRepository) Update(t *models.Transcription) error {
	return r.db.Save(t).Error
}

func (r *transcriptionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Transcription{}, id).Error
}

// Search lists transcriptions newest first, optionally filtered by a term
// matched against title, original file name and the owning user's name/email.
func (r *transcriptionRepository) Search(searchTerm string, page, limit int) ([]models.Transcription, int64, error) {
	query := r.db.Model(&models.Transcription{}).
		Joins("LEFT JOIN users ON users.id = transcriptions.user_id")

	if term := strings.TrimSpace(searchTerm); term != "" {
		pattern := "%" + term + "%"
		query = query.Where(
			"transcriptions.title LIKE ? OR transcriptions.original_file_name LIKE ? OR users.name LIKE ? OR users.email LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transcriptions []models.Transcription
	err := query.
		Preload("User").
		Order("transcriptions.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&transcriptions).Error
	return transcriptions, total, err
}
