package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vkotelev/foodline/internal/logging"
	mwauth "github.com/vkotelev/foodline/internal/middleware/auth"
	"github.com/vkotelev/foodline/internal/service"
	"github.com/vkotelev/foodline/internal/transport"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.me")

	userID, err := mwauth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := h.Svc.Get(ctx, userID)
	if err != nil {
		l.Warn("me_error", "error", err)
		return httpError(err, "user not found")
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) UpdateMe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_me")

	userID, err := mwauth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.UpdateProfile(ctx, userID, req)
	if err != nil {
		l.Warn("update_me_error", "error", err)
		return httpError(err, "cannot update profile")
	}

	l.Info("profile_updated", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) RegisterPushToken(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.register_push_token")

	userID, err := mwauth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.PushTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.RegisterPushToken(ctx, userID, req.Token); err != nil {
		l.Warn("register_push_token_error", "error", err)
		return httpError(err, "cannot register token")
	}

	l.Info("push_token_registered", "user_id", userID)
	return c.NoContent(http.StatusNoContent)
}

// SweepPushTokens is the admin maintenance endpoint marking stale device
// tokens inactive.
func (h *UserHTTP) SweepPushTokens(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.sweep_push_tokens")

	n, err := h.Svc.SweepStalePushTokens(ctx)
	if err != nil {
		l.Error("sweep_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]int64{"deactivated": n})
}
