package repository

import (
	"time"

	"github.com/condutamedx/medx-backend/app/models"
	"gorm.io/gorm"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDWithPlan retrieves a user together with their current plan
func (r *userRepository) GetByIDWithPlan(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Plan").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByResetToken retrieves a user holding a still-valid reset token hash
func (r *userRepository) GetByResetToken(tokenHash string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.
		Where("reset_password_token = ? AND reset_password_expires > ?", tokenHash, now).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates an existing user in the database
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Updates applies a partial column update to a user
func (r *userRepository) Updates(user *models.User, updates map[string]interface{}) error {
	return r.db.Model(user).Updates(updates).Error
}

// Delete soft deletes a user by their ID
func (r *userRepository) Delete(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

// ListWithPlan retrieves all users with their plan, newest first
func (r *userRepository) ListWithPlan() ([]models.User, error) {
	var users []models.User
	err := r.db.Preload("Plan").Order("created_at DESC").Find(&users).Error
	return users, err
}

// CountCreatedSince returns how many users registered since the given time
func (r *userRepository) CountCreatedSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}
