package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vkotelev/foodline/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Model(&order).Update("status", status).Error
	}); err != nil {
		return nil, err
	}
	order.Status = status
	return &order, nil
}

// ListOrdersForUser returns the user's orders newest first. The result is
// never nil so an empty history serializes as an empty array.
func (r *GormRepo) ListOrdersForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrders returns all orders, optionally bounded by inclusive creation
// time limits. Nil bounds are open.
func (r *GormRepo) ListOrders(ctx context.Context, from, to *time.Time) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Preload("Items")
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}

	orders := []models.Order{}
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
