package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	UserActive   = "active"
	UserInactive = "inactive"

	TokenActive   = "active"
	TokenInactive = "inactive"
)

// Push tokens not refreshed within this window are swept inactive.
const PushTokenTTL = 30 * 24 * time.Hour

const (
	ProductAvailable   = "available"
	ProductUnavailable = "unavailable"
)

var ProductCategories = []string{"burgers", "pizza", "sushi", "drinks", "desserts", "other"}

const (
	OrderStatusShipping  = "shipping"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
	OrderStatusRefunded  = "refunded"
)

var OrderStatuses = []string{
	OrderStatusShipping,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

var PaymentMethods = []string{"cash", "card", "online"}

func ValidCategory(v string) bool      { return contains(ProductCategories, v) }
func ValidOrderStatus(v string) bool   { return contains(OrderStatuses, v) }
func ValidPaymentMethod(v string) bool { return contains(PaymentMethods, v) }

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

type User struct {
	ID      uuid.UUID `gorm:"primaryKey"      json:"id"`
	Subject string    `gorm:"uniqueIndex;not null" json:"subject"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
	Role    string    `gorm:"not null;default:user"   json:"role"`
	Status  string    `gorm:"not null;default:active" json:"status"`

	PushToken          string     `json:"-"`
	PushTokenStatus    string     `gorm:"default:inactive" json:"-"`
	PushTokenUpdatedAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID            uuid.UUID           `gorm:"primaryKey"             json:"id"`
	Name          string              `gorm:"not null"               json:"name"`
	Description   string              `json:"description"`
	Price         decimal.Decimal     `gorm:"type:numeric;not null"  json:"price"`
	DiscountPrice decimal.NullDecimal `gorm:"type:numeric"           json:"discount_price"`
	Category      string              `gorm:"not null;index"         json:"category"`
	Status        string              `gorm:"not null;default:available" json:"status"`
	Images        []ProductImage      `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt     time.Time           `json:"created_at"`

	// Filled by the repo from the reviews table, not stored.
	Rating      float64 `gorm:"-" json:"rating"`
	ReviewCount int64   `gorm:"-" json:"review_count"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// EffectivePrice is the discount price when set, the list price otherwise.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice.Valid {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}

type ProductImage struct {
	ID        uuid.UUID `gorm:"primaryKey"     json:"id"`
	ProductID uuid.UUID `gorm:"index;not null" json:"product_id"`
	URL       string    `gorm:"not null"       json:"url"`
	Position  int       `json:"position"`
}

func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Review struct {
	ID        uuid.UUID `gorm:"primaryKey"                              json:"id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_product_user;not null"   json:"product_id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_product_user;not null"   json:"user_id"`
	Rating    int       `gorm:"not null;check:rating BETWEEN 1 AND 5"   json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type CartItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                             json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_user_product;not null"  json:"user_id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_user_product;not null"  json:"product_id"`
	Quantity  uint      `gorm:"default:1;check:quantity>0"             json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

type Order struct {
	ID            uuid.UUID       `gorm:"primaryKey"            json:"id"`
	UserID        uuid.UUID       `gorm:"index;not null"        json:"user_id"`
	Status        string          `gorm:"not null;index"        json:"status"`
	PaymentMethod string          `gorm:"not null"              json:"payment_method"`
	Total         decimal.Decimal `gorm:"type:numeric;not null" json:"total"`
	Items         []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time       `gorm:"index"                 json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID      uuid.UUID `gorm:"primaryKey"     json:"id"`
	OrderID uuid.UUID `gorm:"index;not null" json:"order_id"`

	// Snapshot of the product at placement time; later catalog edits or
	// deletions never rewrite placed orders.
	ProductID   uuid.UUID       `gorm:"not null"              json:"product_id"`
	ProductName string          `gorm:"not null"              json:"product_name"`
	Quantity    uint            `gorm:"check:quantity>0"      json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric;not null" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:numeric;not null" json:"line_total"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
