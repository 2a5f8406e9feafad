package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vkotelev/foodline/internal/logging"
	mwauth "github.com/vkotelev/foodline/internal/middleware/auth"
	"github.com/vkotelev/foodline/internal/mykafka"
	"github.com/vkotelev/foodline/internal/service"
	"github.com/vkotelev/foodline/internal/transport"
)

type CartHTTP struct {
	Svc      *service.CartService
	Producer *mykafka.Producer
}

func (h *CartHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := mwauth.UserID(c)
	if err != nil {
		l.Error("add_to_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.UserID != nil && *req.UserID != userID {
		l.Warn("add_to_cart_error", "status", 403, "reason", "user mismatch")
		return echo.NewHTTPError(http.StatusForbidden, "cannot act on another user's cart")
	}

	item, price, err := h.Svc.Add(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		l.Warn("add_to_cart_error", "error", err)
		return httpError(err, "cannot add to cart")
	}

	publish(c, h.Producer, userID.String(), map[string]any{
		"type":       "cart_item_added",
		"user_id":    userID,
		"product_id": req.ProductID,
		"quantity":   item.Quantity,
	})

	l.Info("cart_item_added", "product_id", req.ProductID, "quantity", item.Quantity)
	return c.JSON(http.StatusCreated, transport.AddToCartResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Price:     price,
	})
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	userID, err := mwauth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_quantity_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req transport.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_quantity_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.UpdateQuantity(ctx, userID, entryID, req.Quantity)
	if err != nil {
		l.Warn("update_quantity_error", "error", err)
		return httpError(err, "cannot update quantity")
	}

	l.Info("cart_quantity_updated", "entry_id", entryID, "quantity", item.Quantity)
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := mwauth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.Remove(ctx, userID, entryID); err != nil {
		l.Warn("remove_from_cart_error", "error", err)
		return httpError(err, "cart entry not found")
	}

	publish(c, h.Producer, userID.String(), map[string]any{
		"type":     "cart_item_removed",
		"user_id":  userID,
		"entry_id": entryID,
	})

	l.Info("cart_item_removed", "entry_id", entryID)
	return c.JSON(http.StatusOK, map[string]any{"deleted": entryID})
}

func (h *CartHTTP) Count(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.count")

	userID, err := mwauth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	count, err := h.Svc.Count(ctx, userID)
	if err != nil {
		l.Error("cart_count_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]int64{"count": count})
}

func (h *CartHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.list")

	userID, err := mwauth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	entries, err := h.Svc.List(ctx, userID)
	if err != nil {
		l.Error("cart_list_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, entries)
}

func (h *CartHTTP) RemoveByProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_by_products")

	userID, err := mwauth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.RemoveByProductsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	removed, err := h.Svc.RemoveByProducts(ctx, userID, req.ProductIDs)
	if err != nil {
		l.Warn("remove_by_products_error", "error", err)
		return httpError(err, "cannot clean cart")
	}

	l.Info("cart_cleaned", "removed", removed)
	return c.JSON(http.StatusOK, map[string]int64{"removed": removed})
}
