package repository

import (
	"github.com/condutamedx/medx-backend/app/models"
	"gorm.io/gorm"
)

// settingRepository implements the SettingRepository interface
type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository instance
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// List returns all settings ordered by key
func (r *settingRepository) List() ([]models.Setting, error) {
	var settings []models.Setting
	err := r.db.Order("setting_key ASC").Find(&settings).Error
	return settings, err
}

// GetByKey retrieves a setting by its key
func (r *settingRepository) GetByKey(key string) (*models.Setting, error) {
	var setting models.Setting
	// Column is `setting_key` (see gorm tag in models.Setting)
	err := r.db.Where("setting_key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// UpdateValue updates the value of an existing setting
func (r *settingRepository) UpdateValue(key, value string) (*models.Setting, error) {
	setting, err := r.GetByKey(key)
	if err != nil {
		return nil, err
	}
	setting.Value = value
	if err := r.db.Save(setting).Error; err != nil {
		return nil, err
	}
	return setting, nil
}
