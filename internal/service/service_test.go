package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vkotelev/foodline/internal/models"
	"github.com/vkotelev/foodline/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductImage{},
		&models.Review{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return &repo.GormRepo{DB: db}
}

func createUser(t *testing.T, r *repo.GormRepo) *models.User {
	t.Helper()
	user := &models.User{
		Subject: "sub-" + t.Name(),
		Email:   "user@example.com",
		Name:    "test user",
		Role:    models.RoleUser,
		Status:  models.UserActive,
	}
	if err := r.DB.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createProduct(t *testing.T, r *repo.GormRepo, name string, price string, discount string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Description: "test product",
		Price:       decimal.RequireFromString(price),
		Category:    "burgers",
		Status:      models.ProductAvailable,
	}
	if discount != "" {
		product.DiscountPrice = decimal.NewNullDecimal(decimal.RequireFromString(discount))
	}
	if err := r.DB.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
