package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vkotelev/foodline/internal/mykafka"
	"github.com/vkotelev/foodline/internal/service"
)

// httpError maps service sentinels to HTTP statuses. Internal details stay
// in the logs, the body carries a short non-leaking message.
func httpError(err error, msg string) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, msg)
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, msg)
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, msg)
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, msg)
	case errors.Is(err, service.ErrDependency):
		return echo.NewHTTPError(http.StatusBadGateway, msg)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

// publish emits a domain event, best-effort. A nil producer (tests, kafka
// disabled) is a no-op.
func publish(c echo.Context, producer *mykafka.Producer, key string, event map[string]any) {
	if producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := producer.PublishEvent(ctx, key, event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}
