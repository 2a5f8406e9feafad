package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vkotelev/foodline/internal/models"
)

func (r *GormRepo) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserBySubject(ctx context.Context, subject string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, "subject = ?", subject).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *GormRepo) SaveUser(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Save(user).Error
}

func (r *GormRepo) SetPushToken(ctx context.Context, userID uuid.UUID, token string, now time.Time) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"push_token":            token,
			"push_token_status":     models.TokenActive,
			"push_token_updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkStalePushTokens flips active tokens last refreshed before cutoff to
// inactive, keeping the token value. Returns the number of rows touched.
func (r *GormRepo) MarkStalePushTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("push_token_status = ? AND push_token_updated_at < ?", models.TokenActive, cutoff).
		Update("push_token_status", models.TokenInactive)
	return res.RowsAffected, res.Error
}
