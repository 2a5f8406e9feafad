package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vkotelev/foodline/internal/identity"
	"github.com/vkotelev/foodline/internal/models"
	"github.com/vkotelev/foodline/internal/service"
)

type Verifier interface {
	Verify(ctx context.Context, bearer string) (*identity.Claims, error)
}

type Middleware struct {
	Verifier Verifier
	Users    *service.UserService
}

func NewMiddleware(verifier Verifier, users *service.UserService) *Middleware {
	return &Middleware{Verifier: verifier, Users: users}
}

// RequireAuth verifies the bearer credential against the identity provider
// and lazily provisions an internal user for an unseen subject.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireRole(next, "")
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireRole(next, models.RoleAdmin)
}

func (m *Middleware) requireRole(next echo.HandlerFunc, role string) echo.HandlerFunc {
	return func(c echo.Context) error {
		bearer := bearerToken(c)
		if bearer == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		ctx := c.Request().Context()
		claims, err := m.Verifier.Verify(ctx, bearer)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidToken) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid bearer token")
			}
			return echo.NewHTTPError(http.StatusBadGateway, "identity provider unavailable")
		}

		user, err := m.Users.Provision(ctx, claims)
		if err != nil {
			if errors.Is(err, service.ErrForbidden) {
				return echo.NewHTTPError(http.StatusForbidden, "account inactive")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}

		if role != "" && user.Role != role {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}

		c.Set("user_id", user.ID.String())
		c.Set("role", user.Role)
		return next(c)
	}
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// UserID reads the authenticated user id set by RequireAuth.
func UserID(c echo.Context) (uuid.UUID, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("unauthorized")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.New("unauthorized")
	}
	return id, nil
}

func IsAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == models.RoleAdmin
}
