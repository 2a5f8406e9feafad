package httpserver

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vkotelev/foodline/internal/transport"
)

func TestCartAdd(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("cart-add")
	product := env.createProduct("Double Burger", "250")

	load := transport.AddToCartRequest{ProductID: product.ID, Quantity: 2}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load)
	asUser(c, user)
	require.NoError(t, env.Cart.Add(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp transport.AddToCartResponse
	decodeJSON(t, rec, &resp)
	require.Equal(t, product.ID, resp.ProductID)
	require.Equal(t, uint(2), resp.Quantity)
	require.True(t, resp.Price.Equal(decimal.NewFromInt(500)), "price covers the resulting quantity")
}

func TestCartAdd_MergesExistingEntry(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("cart-merge")
	product := env.createProduct("Fries", "90")

	for _, q := range []uint{1, 3} {
		rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", transport.AddToCartRequest{ProductID: product.ID, Quantity: q})
		asUser(c, user)
		require.NoError(t, env.Cart.Add(c))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil)
	asUser(c, user)
	require.NoError(t, env.Cart.List(c))

	var entries []transport.CartEntry
	decodeJSON(t, rec, &entries)
	require.Len(t, entries, 1)
	require.Equal(t, uint(4), entries[0].Quantity)
}

func TestCartAdd_ForeignUserRejected(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("cart-owner")
	product := env.createProduct("Cola", "60")

	other := uuid.New()
	load := transport.AddToCartRequest{UserID: &other, ProductID: product.ID, Quantity: 1}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load)
	asUser(c, user)
	requireHTTPStatus(t, env.Cart.Add(c), http.StatusForbidden)
}

func TestCartAdd_ValidationAndUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("cart-bad")

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", transport.AddToCartRequest{ProductID: uuid.New(), Quantity: 0})
	asUser(c, user)
	requireHTTPStatus(t, env.Cart.Add(c), http.StatusBadRequest)

	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/cart", transport.AddToCartRequest{ProductID: uuid.New(), Quantity: 1})
	asUser(c, user)
	requireHTTPStatus(t, env.Cart.Add(c), http.StatusNotFound)
}

func TestCartUpdateQuantityAndRemove(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("cart-update")
	product := env.createProduct("Pizza", "400")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", transport.AddToCartRequest{ProductID: product.ID, Quantity: 1})
	asUser(c, user)
	require.NoError(t, env.Cart.Add(c))

	var added transport.AddToCartResponse
	decodeJSON(t, rec, &added)

	rec, c = env.doJSONRequest(http.MethodPut, "/api/v1/cart/"+added.ID.String(), transport.UpdateQuantityRequest{Quantity: 5})
	asUser(c, user)
	c.SetParamNames("id")
	c.SetParamValues(added.ID.String())
	require.NoError(t, env.Cart.UpdateQuantity(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(http.MethodDelete, "/api/v1/cart/"+added.ID.String(), nil)
	asUser(c, user)
	c.SetParamNames("id")
	c.SetParamValues(added.ID.String())
	require.NoError(t, env.Cart.Remove(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/cart/count", nil)
	asUser(c, user)
	require.NoError(t, env.Cart.Count(c))

	var count map[string]int64
	decodeJSON(t, rec, &count)
	require.Equal(t, int64(0), count["count"])
}

func TestCartCount_SumsQuantities(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("cart-count")
	a := env.createProduct("Soup", "120")
	b := env.createProduct("Bread", "30")

	for _, load := range []transport.AddToCartRequest{
		{ProductID: a.ID, Quantity: 3},
		{ProductID: b.ID, Quantity: 4},
	} {
		_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", load)
		asUser(c, user)
		require.NoError(t, env.Cart.Add(c))
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/cart/count", nil)
	asUser(c, user)
	require.NoError(t, env.Cart.Count(c))

	var count map[string]int64
	decodeJSON(t, rec, &count)
	require.Equal(t, int64(7), count["count"])
}

func TestCartRemoveByProducts(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("cart-clean")
	a := env.createProduct("Roll", "200")
	b := env.createProduct("Tea", "50")

	for _, p := range []uuid.UUID{a.ID, b.ID} {
		_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", transport.AddToCartRequest{ProductID: p, Quantity: 1})
		asUser(c, user)
		require.NoError(t, env.Cart.Add(c))
	}

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/cart/products", transport.RemoveByProductsRequest{ProductIDs: []uuid.UUID{a.ID}})
	asUser(c, user)
	require.NoError(t, env.Cart.RemoveByProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int64
	decodeJSON(t, rec, &resp)
	require.Equal(t, int64(1), resp["removed"])
}
