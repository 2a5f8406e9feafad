package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vkotelev/foodline/internal/models"
	"github.com/vkotelev/foodline/internal/repo"
	"github.com/vkotelev/foodline/internal/transport"
)

type CartService struct {
	Repo *repo.GormRepo
}

// Add merges quantity into an existing (user, product) entry or creates
// one, and returns the entry together with the price of the resulting
// quantity at the product's effective price.
func (s *CartService) Add(ctx context.Context, userID, productID uuid.UUID, quantity uint) (*models.CartItem, decimal.Decimal, error) {
	if productID == uuid.Nil {
		return nil, decimal.Zero, fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if quantity < 1 {
		return nil, decimal.Zero, fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, decimal.Zero, fmt.Errorf("%w: product", ErrNotFound)
	}
	if err != nil {
		return nil, decimal.Zero, err
	}
	if product.Status != models.ProductAvailable {
		return nil, decimal.Zero, fmt.Errorf("%w: product unavailable", ErrNotFound)
	}

	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.Repo.AddToCart(ctx, item); err != nil {
		return nil, decimal.Zero, err
	}

	price := product.EffectivePrice().Mul(decimal.NewFromInt(int64(item.Quantity)))
	return item, price, nil
}

// UpdateQuantity replaces the stored quantity, it does not add to it.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, entryID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}

	item, err := s.Repo.UpdateCartQuantity(ctx, entryID, userID, uint(quantity))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: cart entry", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, userID, entryID uuid.UUID) error {
	err := s.Repo.DeleteCartItem(ctx, entryID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: cart entry", ErrNotFound)
	}
	return err
}

// Count is the sum of quantities across the user's entries, the
// quantity-weighted cart badge rather than the entry count.
func (s *CartService) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.Repo.CountCart(ctx, userID)
}

// List returns the user's entries in insertion order, joined with product
// display fields.
func (s *CartService) List(ctx context.Context, userID uuid.UUID) ([]transport.CartEntry, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]transport.CartEntry, 0, len(items))
	for _, item := range items {
		entry := transport.CartEntry{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			CreatedAt: item.CreatedAt,
		}
		product, err := s.Repo.GetProduct(ctx, item.ProductID)
		if err == nil {
			entry.Name = product.Name
			entry.Description = product.Description
			entry.Price = product.Price
			entry.DiscountPrice = product.DiscountPrice
			if len(product.Images) > 0 {
				entry.Image = product.Images[0].URL
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// RemoveByProducts bulk-deletes the caller's entries for a product id set.
// Clients call this after checkout; placing an order never clears the cart
// on its own.
func (s *CartService) RemoveByProducts(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) (int64, error) {
	if len(productIDs) == 0 {
		return 0, fmt.Errorf("%w: product_ids required", ErrValidation)
	}
	return s.Repo.DeleteCartItemsByProducts(ctx, userID, productIDs)
}
