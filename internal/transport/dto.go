package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddToCartRequest struct {
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	ProductID uuid.UUID  `json:"product_id"`
	Quantity  uint       `json:"quantity"`
}

type AddToCartResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  uint            `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartEntry struct {
	ID            uuid.UUID           `json:"id"`
	ProductID     uuid.UUID           `json:"product_id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice decimal.NullDecimal `json:"discount_price"`
	Image         string              `json:"image,omitempty"`
	Quantity      uint                `json:"quantity"`
	CreatedAt     time.Time           `json:"created_at"`
}

type RemoveByProductsRequest struct {
	ProductIDs []uuid.UUID `json:"product_ids"`
}

type OrderLineRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type PlaceOrderRequest struct {
	UserID        *uuid.UUID         `json:"user_id,omitempty"`
	Items         []OrderLineRequest `json:"items"`
	PaymentMethod string             `json:"payment_method"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type MonthlyTopProduct struct {
	Month       string    `json:"month"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    uint      `json:"quantity"`
}

type CreateProductRequest struct {
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice decimal.NullDecimal `json:"discount_price"`
	Category      string              `json:"category"`
	Status        string              `json:"status"`
	Images        []string            `json:"images"`
}

type PatchProductRequest struct {
	Name          *string              `json:"name"`
	Description   *string              `json:"description"`
	Price         *decimal.Decimal     `json:"price"`
	DiscountPrice *decimal.NullDecimal `json:"discount_price"`
	Category      *string              `json:"category"`
	Status        *string              `json:"status"`
}

type AddReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type PushTokenRequest struct {
	Token string `json:"token"`
}
