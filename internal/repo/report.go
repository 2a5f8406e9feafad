package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vkotelev/foodline/internal/models"
)

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

func (r *GormRepo) CountOrdersByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type OrderLine struct {
	CreatedAt   time.Time
	ProductID   uuid.UUID
	ProductName string
	Quantity    uint
}

// OrderLines feeds the monthly aggregation; grouping happens in the service
// so the query stays portable across the production and test dialects.
func (r *GormRepo) OrderLines(ctx context.Context, from, to *time.Time) ([]OrderLine, error) {
	q := r.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Select("orders.created_at, order_items.product_id, order_items.product_name, order_items.quantity").
		Joins("JOIN orders ON orders.id = order_items.order_id")
	if from != nil {
		q = q.Where("orders.created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("orders.created_at <= ?", *to)
	}

	var lines []OrderLine
	if err := q.Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}
