package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkotelev/foodline/internal/models"
)

func TestCartService_Add_MergesQuantities(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	user := createUser(t, r)
	product := createProduct(t, r, "burger", "100", "")

	item, price, err := svc.Add(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), item.Quantity)
	assert.True(t, price.Equal(decimal.RequireFromString("200")), "got %s", price)

	item, price, err = svc.Add(ctx, user.ID, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(5), item.Quantity)
	assert.True(t, price.Equal(decimal.RequireFromString("500")), "got %s", price)

	var count int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "merge must not duplicate the (user, product) pair")
}

func TestCartService_Add_UsesDiscountPrice(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}

	user := createUser(t, r)
	product := createProduct(t, r, "pizza", "100", "80")

	_, price, err := svc.Add(context.Background(), user.ID, product.ID, 3)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("240")), "got %s", price)
}

func TestCartService_Add_Validation(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	user := createUser(t, r)
	product := createProduct(t, r, "burger", "100", "")

	_, _, err := svc.Add(ctx, user.ID, product.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.Add(ctx, user.ID, uuid.New(), 1)
	assert.ErrorIs(t, err, ErrNotFound)

	unavailable := createProduct(t, r, "sold out", "10", "")
	require.NoError(t, r.DB.Model(unavailable).Update("status", models.ProductUnavailable).Error)
	_, _, err = svc.Add(ctx, user.ID, unavailable.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	user := createUser(t, r)
	product := createProduct(t, r, "burger", "100", "")

	item, _, err := svc.Add(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)

	updated, err := svc.UpdateQuantity(ctx, user.ID, item.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, uint(7), updated.Quantity, "update replaces, not adds")

	for _, bad := range []int{0, -1} {
		_, err := svc.UpdateQuantity(ctx, user.ID, item.ID, bad)
		assert.ErrorIs(t, err, ErrValidation)
	}

	var stored models.CartItem
	require.NoError(t, r.DB.First(&stored, "id = ?", item.ID).Error)
	assert.Equal(t, uint(7), stored.Quantity, "failed update must leave the entry unchanged")

	_, err = svc.UpdateQuantity(ctx, user.ID, uuid.New(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_Remove_Ownership(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	owner := createUser(t, r)
	other := &models.User{Subject: "sub-other", Role: models.RoleUser, Status: models.UserActive}
	require.NoError(t, r.DB.Create(other).Error)
	product := createProduct(t, r, "burger", "100", "")

	item, _, err := svc.Add(ctx, owner.ID, product.ID, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Remove(ctx, other.ID, item.ID), ErrNotFound)
	require.NoError(t, svc.Remove(ctx, owner.ID, item.ID))
	assert.ErrorIs(t, svc.Remove(ctx, owner.ID, item.ID), ErrNotFound)
}

func TestCartService_Count_SumsQuantities(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	user := createUser(t, r)
	p1 := createProduct(t, r, "burger", "100", "")
	p2 := createProduct(t, r, "pizza", "200", "")

	count, err := svc.Count(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	_, _, err = svc.Add(ctx, user.ID, p1.ID, 3)
	require.NoError(t, err)
	_, _, err = svc.Add(ctx, user.ID, p2.ID, 4)
	require.NoError(t, err)

	count, err = svc.Count(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 7, count, "count is the quantity sum, not the entry count")
}

func TestCartService_List_JoinsProductFields(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	user := createUser(t, r)
	product := createProduct(t, r, "burger", "100", "80")
	require.NoError(t, r.DB.Create(&models.ProductImage{ProductID: product.ID, URL: "https://img/1.jpg"}).Error)

	_, _, err := svc.Add(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)

	entries, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "burger", entries[0].Name)
	assert.Equal(t, uint(2), entries[0].Quantity)
	assert.Equal(t, "https://img/1.jpg", entries[0].Image)
	assert.True(t, entries[0].DiscountPrice.Valid)
}

func TestCartService_RemoveByProducts(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	user := createUser(t, r)
	p1 := createProduct(t, r, "burger", "100", "")
	p2 := createProduct(t, r, "pizza", "200", "")
	p3 := createProduct(t, r, "sushi", "300", "")

	for _, p := range []uuid.UUID{p1.ID, p2.ID, p3.ID} {
		_, _, err := svc.Add(ctx, user.ID, p, 1)
		require.NoError(t, err)
	}

	_, err := svc.RemoveByProducts(ctx, user.ID, nil)
	assert.ErrorIs(t, err, ErrValidation)

	removed, err := svc.RemoveByProducts(ctx, user.ID, []uuid.UUID{p1.ID, p2.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	entries, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, p3.ID, entries[0].ProductID)
}
