package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vkotelev/foodline/internal/models"
	"github.com/vkotelev/foodline/internal/repo"
	"github.com/vkotelev/foodline/internal/service"
)

type testEnv struct {
	T     *testing.T
	E     *echo.Echo
	DB    *gorm.DB
	Cart  *CartHTTP
	Order *OrderHTTP
	User  *UserHTTP
	Push  *fakeNotifier
}

type fakeNotifier struct {
	tokens []string
}

func (n *fakeNotifier) Send(_ context.Context, token, _, _ string, _ map[string]string) error {
	n.tokens = append(n.tokens, token)
	return nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.ProductImage{},
		&models.Review{}, &models.CartItem{}, &models.Order{}, &models.OrderItem{},
	))

	r := &repo.GormRepo{DB: db}
	notifier := &fakeNotifier{}

	return &testEnv{
		T:     t,
		E:     echo.New(),
		DB:    db,
		Cart:  &CartHTTP{Svc: &service.CartService{Repo: r}},
		Order: &OrderHTTP{Svc: &service.OrderService{Repo: r, Notifier: notifier}, Reports: &service.ReportService{Repo: r}},
		User:  &UserHTTP{Svc: &service.UserService{Repo: r}},
		Push:  notifier,
	}
}

// doJSONRequest builds an echo context carrying the given body; handlers are
// invoked directly, so authentication is simulated with asUser / asAdmin.
func (env *testEnv) doJSONRequest(method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func asUser(c echo.Context, u *models.User) {
	c.Set("user_id", u.ID.String())
	c.Set("role", u.Role)
}

func asAdmin(c echo.Context, u *models.User) {
	c.Set("user_id", u.ID.String())
	c.Set("role", models.RoleAdmin)
}

func (env *testEnv) createUser(subject string) *models.User {
	u := &models.User{Subject: subject, Email: subject + "@example.com", Role: models.RoleUser, Status: models.UserActive}
	require.NoError(env.T, env.DB.Create(u).Error)
	return u
}

func (env *testEnv) createProduct(name, price string) *models.Product {
	p := &models.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: "burgers",
		Status:   models.ProductAvailable,
	}
	require.NoError(env.T, env.DB.Create(p).Error)
	return p
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func requireHTTPStatus(t *testing.T, err error, want int) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, want, he.Code)
}
