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

type OrderHTTP struct {
	Svc      *service.OrderService
	Reports  *service.ReportService
	Producer *mykafka.Producer
}

func (h *OrderHTTP) Place(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place")

	userID, err := mwauth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("place_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.UserID != nil && *req.UserID != userID {
		l.Warn("place_order_error", "status", 403, "reason", "user mismatch")
		return echo.NewHTTPError(http.StatusForbidden, "cannot order for another user")
	}

	order, err := h.Svc.Place(ctx, userID, req.Items, req.PaymentMethod)
	if err != nil {
		l.Warn("place_order_error", "error", err)
		return httpError(err, "cannot place order")
	}

	publish(c, h.Producer, userID.String(), map[string]any{
		"type":     "order_created",
		"user_id":  userID,
		"order_id": order.ID,
		"total":    order.Total,
	})

	l.Info("order_placed", "order_id", order.ID, "total", order.Total)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) SetStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.set_status")

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req transport.SetStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.SetStatus(ctx, orderID, req.Status)
	if err != nil {
		l.Warn("set_status_error", "error", err)
		return httpError(err, "cannot update status")
	}

	publish(c, h.Producer, order.UserID.String(), map[string]any{
		"type":     "order_status_changed",
		"user_id":  order.UserID,
		"order_id": order.ID,
		"status":   order.Status,
	})

	l.Info("order_status_changed", "order_id", order.ID, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ListForUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_for_user")

	callerID, err := mwauth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if userID != callerID && !mwauth.IsAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "cannot read another user's orders")
	}

	orders, err := h.Svc.ListForUser(ctx, userID)
	if err != nil {
		l.Error("list_orders_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	callerID, err := mwauth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	order, err := h.Svc.Get(ctx, orderID)
	if err != nil {
		l.Warn("get_order_error", "error", err)
		return httpError(err, "order not found")
	}
	if order.UserID != callerID && !mwauth.IsAdmin(c) {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	return c.JSON(http.StatusOK, order)
}

// ListAll serves the admin dashboard: orders within the optional date range
// plus the most-purchased product per month over the same range.
func (h *OrderHTTP) ListAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_all")

	fromStr := c.QueryParam("startDate")
	toStr := c.QueryParam("endDate")

	orders, err := h.Svc.ListAll(ctx, fromStr, toStr)
	if err != nil {
		l.Warn("list_all_error", "error", err)
		return httpError(err, "invalid date range")
	}

	top, err := h.Reports.TopProductByMonth(ctx, fromStr, toStr)
	if err != nil {
		l.Error("list_all_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"orders":              orders,
		"top_product_monthly": top,
	})
}

func (h *OrderHTTP) TopProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.top_products")

	top, err := h.Reports.TopProductByMonth(ctx, c.QueryParam("startDate"), c.QueryParam("endDate"))
	if err != nil {
		l.Warn("top_products_error", "error", err)
		return httpError(err, "invalid date range")
	}

	return c.JSON(http.StatusOK, top)
}

func (h *OrderHTTP) StatusCounts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.status_counts")

	counts, err := h.Reports.CountByStatus(ctx)
	if err != nil {
		l.Error("status_counts_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, counts)
}
