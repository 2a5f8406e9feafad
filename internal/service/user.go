package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vkotelev/foodline/internal/identity"
	"github.com/vkotelev/foodline/internal/logging"
	"github.com/vkotelev/foodline/internal/models"
	"github.com/vkotelev/foodline/internal/repo"
	"github.com/vkotelev/foodline/internal/transport"
)

// ProfileMirror write-throughs profile fields to the identity provider's
// document after the primary store commits.
type ProfileMirror interface {
	UpdateProfile(ctx context.Context, subject, email, name string) error
}

type UserService struct {
	Repo   *repo.GormRepo
	Mirror ProfileMirror
}

// Provision resolves the verified subject to an internal user, creating
// one on first sight. Inactive users are rejected.
func (s *UserService) Provision(ctx context.Context, claims *identity.Claims) (*models.User, error) {
	user, err := s.Repo.GetUserBySubject(ctx, claims.Subject)
	if err == nil {
		if user.Status != models.UserActive {
			return nil, fmt.Errorf("%w: user inactive", ErrForbidden)
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = &models.User{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Role:    models.RoleUser,
		Status:  models.UserActive,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile writes the primary record, then mirrors to the identity
// provider. Mirror failure is logged, the primary write stands.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req transport.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	if s.Mirror != nil {
		if err := s.Mirror.UpdateProfile(ctx, user.Subject, user.Email, user.Name); err != nil {
			logging.FromContext(ctx).Warn("profile mirror failed", "user_id", user.ID, "error", err)
		}
	}
	return user, nil
}

func (s *UserService) RegisterPushToken(ctx context.Context, id uuid.UUID, token string) error {
	if token == "" {
		return fmt.Errorf("%w: token required", ErrValidation)
	}
	err := s.Repo.SetPushToken(ctx, id, token, time.Now().UTC())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: user", ErrNotFound)
	}
	return err
}

// SweepStalePushTokens marks tokens unused for longer than the retention
// window as inactive. The token value is kept.
func (s *UserService) SweepStalePushTokens(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-models.PushTokenTTL)
	n, err := s.Repo.MarkStalePushTokens(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	logging.FromContext(ctx).Info("push token sweep", "deactivated", n)
	return n, nil
}
