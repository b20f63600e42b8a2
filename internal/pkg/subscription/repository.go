package subscription

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/condutamedx/medx-backend/app/models"
)

// Repository provides the DB operations the reconciler needs. Transaction
// yields a repository bound to one DB transaction so the order update and the
// user entitlement update commit or roll back together.
type Repository interface {
	CreateOrder(order *models.SubscriptionOrder) error
	GetOrderByID(id string) (*models.SubscriptionOrder, error)
	// GetOrderByIDForUpdate takes a row lock; only valid inside Transaction.
	GetOrderByIDForUpdate(id string) (*models.SubscriptionOrder, error)
	UpdateOrder(order *models.SubscriptionOrder, updates map[string]interface{}) error
	ListOrders(filter OrderFilter) ([]models.SubscriptionOrder, int64, error)

	GetUserByID(id uint) (*models.User, error)
	// GetUserByIDForUpdate takes a row lock; only valid inside Transaction.
	GetUserByIDForUpdate(id uint) (*models.User, error)
	GetUserWithPlan(id uint) (*models.User, error)
	UpdateUser(user *models.User, updates map[string]interface{}) error
	GetPlanByID(id uint) (*models.Plan, error)

	CreateWebhookEventIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error

	SumApprovedRevenue(since *time.Time) (decimal.Decimal, error)
	CountActiveSubscribers(now time.Time) (int64, error)

	Transaction(fn func(Repository) error) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a subscription repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateOrder(order *models.SubscriptionOrder) error {
	return r.db.Create(order).Error
}

func (r *gormRepository) GetOrderByID(id string) (*models.SubscriptionOrder, error) {
	var order models.SubscriptionOrder
	err := r.db.Preload("User").Preload("Plan").First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) GetOrderByIDForUpdate(id string) (*models.SubscriptionOrder, error) {
	var order models.SubscriptionOrder
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) UpdateOrder(order *models.SubscriptionOrder, updates map[string]interface{}) error {
	return r.db.Model(order).Updates(updates).Error
}

func (r *gormRepository) ListOrders(filter OrderFilter) ([]models.SubscriptionOrder, int64, error) {
	query := r.db.Model(&models.SubscriptionOrder{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.SubscriptionOrder
	err := query.
		Preload("User").Preload("Plan").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *gormRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) GetUserByIDForUpdate(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) GetUserWithPlan(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Plan").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) UpdateUser(user *models.User, updates map[string]interface{}) error {
	return r.db.Model(user).Updates(updates).Error
}

func (r *gormRepository) GetPlanByID(id uint) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.PaymentWebhookEvent
	if err := r.db.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.PaymentWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}

func (r *gormRepository) SumApprovedRevenue(since *time.Time) (decimal.Decimal, error) {
	query := r.db.Model(&models.SubscriptionOrder{}).
		Where("status = ?", models.OrderStatusApproved)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var total decimal.Decimal
	err := query.Select("COALESCE(SUM(total_amount), 0)").Row().Scan(&total)
	return total, err
}

func (r *gormRepository) CountActiveSubscribers(now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("plan_id IS NOT NULL AND plan_expires_at > ?", now).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) Transaction(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}
