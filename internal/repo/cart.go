package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vkotelev/foodline/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart increments the quantity of an existing (user, product) entry or
// inserts a new one. The conditional UPDATE runs first so two concurrent
// adds cannot both take the insert path and duplicate the pair.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
			Update("quantity", gorm.Expr("quantity + ?", item.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).First(item).Error
		}

		return tx.Create(item).Error
	})
}

func (r *GormRepo) GetCartItem(ctx context.Context, id, userID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) UpdateCartQuantity(ctx context.Context, id, userID uuid.UUID, quantity uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
			return err
		}
		return tx.Model(&item).Update("quantity", quantity).Error
	}); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	return &item, nil
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, id, userID uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteCartItemsByProducts(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id IN ?", userID, productIDs).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// CountCart sums quantities across the user's entries, not the entry count.
func (r *GormRepo) CountCart(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("user_id = ?", userID).
		Scan(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
