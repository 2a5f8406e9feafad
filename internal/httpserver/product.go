package httpserver

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vkotelev/foodline/internal/logging"
	mwauth "github.com/vkotelev/foodline/internal/middleware/auth"
	"github.com/vkotelev/foodline/internal/mykafka"
	"github.com/vkotelev/foodline/internal/service"
	"github.com/vkotelev/foodline/internal/transport"
	"github.com/vkotelev/foodline/internal/util"
)

type ProductHTTP struct {
	Svc      *service.CatalogService
	Producer *mykafka.Producer
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	product, err := h.Svc.Get(ctx, id)
	if err != nil {
		l.Warn("get_product_error", "error", err)
		return httpError(err, "product not found")
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.List(ctx, offset, limit)
	if err != nil {
		l.Error("list_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": items})
}

func (h *ProductHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.Create(ctx, req)
	if err != nil {
		l.Warn("create_product_error", "error", err)
		return httpError(err, "cannot create product")
	}

	publish(c, h.Producer, product.ID.String(), map[string]any{
		"type":       "product_created",
		"product_id": product.ID,
		"name":       product.Name,
	})

	l.Info("product_created", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.Patch(ctx, id, req)
	if err != nil {
		l.Warn("patch_product_error", "error", err)
		return httpError(err, "cannot update product")
	}

	l.Info("product_updated", "product_id", product.ID)
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		l.Warn("delete_product_error", "error", err)
		return httpError(err, "cannot delete product")
	}

	publish(c, h.Producer, id.String(), map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})

	l.Info("product_deleted", "product_id", id)
	return c.JSON(http.StatusOK, map[string]any{"deleted": id})
}

func (h *ProductHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := c.QueryParam("q")
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, hits, err := h.Svc.Search(ctx, q, from, limit)
	if err != nil {
		l.Warn("search_error", "error", err)
		return httpError(err, "search failed")
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": hits})
}

func (h *ProductHTTP) AddReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.add_review")

	userID, err := mwauth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req transport.AddReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	review, err := h.Svc.AddReview(ctx, userID, productID, req)
	if err != nil {
		l.Warn("add_review_error", "error", err)
		return httpError(err, "cannot add review")
	}

	l.Info("review_added", "product_id", productID)
	return c.JSON(http.StatusCreated, review)
}

func (h *ProductHTTP) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list_reviews")

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	reviews, err := h.Svc.Reviews(ctx, productID)
	if err != nil {
		l.Warn("list_reviews_error", "error", err)
		return httpError(err, "product not found")
	}

	return c.JSON(http.StatusOK, reviews)
}
