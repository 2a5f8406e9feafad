package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/vkotelev/foodline/internal/models"
)

// UpsertReview keeps at most one review per (product, user): a second
// submission replaces rating and comment on the existing row.
func (r *GormRepo) UpsertReview(ctx context.Context, review *models.Review) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment"}),
	}).Create(review).Error
}

func (r *GormRepo) ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *GormRepo) ProductExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
