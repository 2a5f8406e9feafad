package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vkotelev/foodline/internal/logging"
	"github.com/vkotelev/foodline/internal/metrics"
	"github.com/vkotelev/foodline/internal/models"
	"github.com/vkotelev/foodline/internal/repo"
	"github.com/vkotelev/foodline/internal/transport"
)

const notifyTimeout = 5 * time.Second

// Notifier is the push boundary. Delivery failures never affect the state
// change that triggered them.
type Notifier interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

type OrderService struct {
	Repo     *repo.GormRepo
	Notifier Notifier
	Metrics  *metrics.Metrics
}

// Place creates one immutable order with status "shipping", snapshotting
// product name and effective unit price per line. The cart is not touched.
func (s *OrderService) Place(ctx context.Context, userID uuid.UUID, items []transport.OrderLineRequest, paymentMethod string) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}
	if !models.ValidPaymentMethod(paymentMethod) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, paymentMethod)
	}

	if _, err := s.Repo.GetUser(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}

	var total decimal.Decimal
	lines := make([]models.OrderItem, 0, len(items))
	for i := range items {
		if items[i].ProductID == uuid.Nil {
			return nil, fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if items[i].Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}

		product, err := s.Repo.GetProduct(ctx, items[i].ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, items[i].ProductID)
		}
		if err != nil {
			return nil, err
		}

		unitPrice := product.EffectivePrice()
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		lines = append(lines, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    uint(items[i].Quantity),
			UnitPrice:   unitPrice,
			LineTotal:   lineTotal,
		})
		total = total.Add(lineTotal)
	}

	order := &models.Order{
		UserID:        userID,
		Status:        models.OrderStatusShipping,
		PaymentMethod: paymentMethod,
		Total:         total,
		Items:         lines,
	}
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	if s.Metrics != nil {
		s.Metrics.OrdersPlaced.Inc()
	}
	return order, nil
}

// SetStatus persists the new status, then attempts a best-effort push to
// the order's owner. The status write is the source of truth: notification
// failure is logged and never surfaced.
func (s *OrderService) SetStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	order, err := s.Repo.UpdateOrderStatus(ctx, orderID, status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if s.Metrics != nil {
		s.Metrics.StatusChanges.WithLabelValues(status).Inc()
	}

	s.notifyStatusChange(ctx, order)
	return order, nil
}

func (s *OrderService) notifyStatusChange(ctx context.Context, order *models.Order) {
	if s.Notifier == nil {
		return
	}
	l := logging.FromContext(ctx).With("order_id", order.ID, "status", order.Status)

	user, err := s.Repo.GetUser(ctx, order.UserID)
	if err != nil {
		l.Warn("status notification skipped", "error", err)
		return
	}

	token := user.PushToken
	if user.PushTokenStatus != models.TokenActive {
		token = ""
	}

	notifyCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	err = s.Notifier.Send(notifyCtx, token,
		"Order update",
		fmt.Sprintf("Your order is now %s", order.Status),
		map[string]string{"order_id": order.ID.String(), "status": order.Status},
	)
	if err != nil {
		l.Warn("status notification failed", "error", err)
		if s.Metrics != nil {
			s.Metrics.PushFailed.Inc()
		}
		return
	}
	if s.Metrics != nil {
		s.Metrics.PushSent.Inc()
	}
}

// ListForUser returns the user's orders newest first. No orders is an
// empty slice, not an error.
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.Repo.ListOrdersForUser(ctx, userID)
}

func (s *OrderService) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

const dateLayout = "2006-01-02"

// ParseDateRange parses optional inclusive YYYY-MM-DD bounds. The end
// bound covers the whole day.
func ParseDateRange(fromStr, toStr string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if fromStr != "" {
		t, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: bad start date %q", ErrValidation, fromStr)
		}
		from = &t
	}
	if toStr != "" {
		t, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: bad end date %q", ErrValidation, toStr)
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}

// ListAll returns all orders, optionally bounded by creation date. Dates
// are validated before any query runs.
func (s *OrderService) ListAll(ctx context.Context, fromStr, toStr string) ([]models.Order, error) {
	from, to, err := ParseDateRange(fromStr, toStr)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListOrders(ctx, from, to)
}
