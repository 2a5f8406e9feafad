package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkotelev/foodline/internal/identity"
	"github.com/vkotelev/foodline/internal/models"
	"github.com/vkotelev/foodline/internal/transport"
)

type recordingMirror struct {
	calls int
	err   error
}

func (m *recordingMirror) UpdateProfile(ctx context.Context, subject, email, name string) error {
	m.calls++
	return m.err
}

func TestUserService_Provision_LazyCreate(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &UserService{Repo: r}
	ctx := context.Background()

	claims := &identity.Claims{Subject: "ext-123", Email: "a@b.c", Name: "Alice"}

	user, err := svc.Provision(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, models.UserActive, user.Status)
	assert.Equal(t, "ext-123", user.Subject)

	again, err := svc.Provision(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID, "second verification reuses the provisioned user")

	var count int64
	require.NoError(t, r.DB.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUserService_Provision_InactiveRejected(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &UserService{Repo: r}
	ctx := context.Background()

	user := createUser(t, r)
	require.NoError(t, r.DB.Model(user).Update("status", models.UserInactive).Error)

	_, err := svc.Provision(ctx, &identity.Claims{Subject: user.Subject})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUserService_UpdateProfile_MirrorFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	mirror := &recordingMirror{err: assert.AnError}
	svc := &UserService{Repo: r, Mirror: mirror}
	ctx := context.Background()

	user := createUser(t, r)
	name := "New Name"

	updated, err := svc.UpdateProfile(ctx, user.ID, transport.UpdateProfileRequest{Name: &name})
	require.NoError(t, err, "mirror failure must not fail the primary write")
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, 1, mirror.calls)

	var stored models.User
	require.NoError(t, r.DB.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "New Name", stored.Name)
}

func TestUserService_RegisterPushToken(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &UserService{Repo: r}
	ctx := context.Background()

	user := createUser(t, r)

	assert.ErrorIs(t, svc.RegisterPushToken(ctx, user.ID, ""), ErrValidation)

	require.NoError(t, svc.RegisterPushToken(ctx, user.ID, "device-1"))

	var stored models.User
	require.NoError(t, r.DB.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "device-1", stored.PushToken)
	assert.Equal(t, models.TokenActive, stored.PushTokenStatus)
	require.NotNil(t, stored.PushTokenUpdatedAt)
}

func TestUserService_SweepStalePushTokens(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &UserService{Repo: r}
	ctx := context.Background()

	fresh := createUser(t, r)
	stale := &models.User{Subject: "sub-stale", Role: models.RoleUser, Status: models.UserActive}
	require.NoError(t, r.DB.Create(stale).Error)

	now := time.Now().UTC()
	old := now.Add(-models.PushTokenTTL - time.Hour)
	require.NoError(t, r.DB.Model(fresh).Updates(map[string]any{
		"push_token": "fresh-token", "push_token_status": models.TokenActive, "push_token_updated_at": now,
	}).Error)
	require.NoError(t, r.DB.Model(stale).Updates(map[string]any{
		"push_token": "stale-token", "push_token_status": models.TokenActive, "push_token_updated_at": old,
	}).Error)

	n, err := svc.SweepStalePushTokens(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var freshStored, staleStored models.User
	require.NoError(t, r.DB.First(&freshStored, "id = ?", fresh.ID).Error)
	require.NoError(t, r.DB.First(&staleStored, "id = ?", stale.ID).Error)
	assert.Equal(t, models.TokenActive, freshStored.PushTokenStatus)
	assert.Equal(t, models.TokenInactive, staleStored.PushTokenStatus)
	assert.Equal(t, "stale-token", staleStored.PushToken, "token value is kept, only status flips")

	n, err = svc.SweepStalePushTokens(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n, "sweep is idempotent")
}
