package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mwauth "github.com/vkotelev/foodline/internal/middleware/auth"
)

type Deps struct {
	Auth     *mwauth.Middleware
	Cart     *CartHTTP
	Order    *OrderHTTP
	Product  *ProductHTTP
	User     *UserHTTP
	Registry *prometheus.Registry
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if d.Registry != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	v1 := e.Group("/api/v1")

	products := v1.Group("/products")
	products.GET("", d.Product.List)
	products.GET("/search", d.Product.Search)
	products.GET("/:id", d.Product.Get)
	products.GET("/:id/reviews", d.Product.ListReviews)
	products.POST("/:id/reviews", d.Product.AddReview, d.Auth.RequireAuth)

	me := v1.Group("/me", d.Auth.RequireAuth)
	me.GET("", d.User.Me)
	me.PUT("", d.User.UpdateMe)
	me.PUT("/push-token", d.User.RegisterPushToken)

	cart := v1.Group("/cart", d.Auth.RequireAuth)
	cart.GET("", d.Cart.List)
	cart.POST("", d.Cart.Add)
	cart.GET("/count", d.Cart.Count)
	cart.DELETE("/products", d.Cart.RemoveByProducts)
	cart.PUT("/:id", d.Cart.UpdateQuantity)
	cart.DELETE("/:id", d.Cart.Remove)

	orders := v1.Group("/orders", d.Auth.RequireAuth)
	orders.POST("", d.Order.Place)
	orders.GET("/user/:id", d.Order.ListForUser)
	orders.GET("/:id", d.Order.Get)

	admin := v1.Group("/admin", d.Auth.RequireAdmin)
	admin.POST("/products", d.Product.Create)
	admin.PATCH("/products/:id", d.Product.Patch)
	admin.DELETE("/products/:id", d.Product.Delete)
	admin.GET("/orders", d.Order.ListAll)
	admin.GET("/orders/status-counts", d.Order.StatusCounts)
	admin.GET("/orders/top-products", d.Order.TopProducts)
	admin.PUT("/orders/:id/status", d.Order.SetStatus)
	admin.POST("/push-tokens/sweep", d.User.SweepPushTokens)
}
