package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vkotelev/foodline/internal/logging"
	"github.com/vkotelev/foodline/internal/models"
	"github.com/vkotelev/foodline/internal/repo"
	"github.com/vkotelev/foodline/internal/search"
	"github.com/vkotelev/foodline/internal/storage"
	"github.com/vkotelev/foodline/internal/transport"
)

type CatalogService struct {
	Repo    *repo.GormRepo
	ES      *elasticsearch.Client
	Storage *storage.Client
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) List(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

func (s *CatalogService) Create(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	product, err := buildProduct(req)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	s.index(ctx, product)
	return product, nil
}

func buildProduct(req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if !req.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be > 0", ErrValidation)
	}
	if req.DiscountPrice.Valid && req.DiscountPrice.Decimal.GreaterThanOrEqual(req.Price) {
		return nil, fmt.Errorf("%w: discount price must be below price", ErrValidation)
	}
	if !models.ValidCategory(req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, req.Category)
	}
	status := req.Status
	if status == "" {
		status = models.ProductAvailable
	}
	if status != models.ProductAvailable && status != models.ProductUnavailable {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	product := &models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Category:      req.Category,
		Status:        status,
	}
	for i, url := range req.Images {
		product.Images = append(product.Images, models.ProductImage{URL: url, Position: i})
	}
	return product, nil
}

func (s *CatalogService) Patch(ctx context.Context, id uuid.UUID, req transport.PatchProductRequest) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: name required", ErrValidation)
		}
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, fmt.Errorf("%w: price must be > 0", ErrValidation)
		}
		product.Price = *req.Price
	}
	if req.DiscountPrice != nil {
		product.DiscountPrice = *req.DiscountPrice
	}
	if product.DiscountPrice.Valid && product.DiscountPrice.Decimal.GreaterThanOrEqual(product.Price) {
		return nil, fmt.Errorf("%w: discount price must be below price", ErrValidation)
	}
	if req.Category != nil {
		if !models.ValidCategory(*req.Category) {
			return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, *req.Category)
		}
		product.Category = *req.Category
	}
	if req.Status != nil {
		if *req.Status != models.ProductAvailable && *req.Status != models.ProductUnavailable {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *req.Status)
		}
		product.Status = *req.Status
	}

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}
	s.index(ctx, product)
	return product, nil
}

// Delete removes the product, its images and any live cart entries
// referencing it; placed orders keep their snapshotted lines. Stored image
// objects and the search document are released best-effort afterwards.
func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	urls, err := s.Repo.DeleteProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: product", ErrNotFound)
	}
	if err != nil {
		return err
	}

	l := logging.FromContext(ctx).With("product_id", id)
	if s.Storage != nil {
		if err := s.Storage.Release(ctx, urls); err != nil {
			l.Warn("image release incomplete", "error", err)
		}
	}
	if s.ES != nil {
		if err := search.DeleteProduct(ctx, s.ES, id); err != nil {
			l.Warn("search deindex failed", "error", err)
		}
	}
	return nil
}

func (s *CatalogService) index(ctx context.Context, product *models.Product) {
	if s.ES == nil {
		return
	}
	if err := search.IndexProduct(ctx, s.ES, product); err != nil {
		logging.FromContext(ctx).Warn("search index failed", "product_id", product.ID, "error", err)
	}
}

func (s *CatalogService) Search(ctx context.Context, query string, from, size int) (int64, []search.Hit, error) {
	if query == "" {
		return 0, nil, fmt.Errorf("%w: query required", ErrValidation)
	}
	if s.ES == nil {
		return 0, nil, fmt.Errorf("%w: search unavailable", ErrDependency)
	}

	total, hits, err := search.Products(ctx, s.ES, query, from, size)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return total, hits, nil
}

func (s *CatalogService) AddReview(ctx context.Context, userID, productID uuid.UUID, req transport.AddReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be 1..5", ErrValidation)
	}

	exists, err := s.Repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: product", ErrNotFound)
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.Repo.UpsertReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *CatalogService) Reviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	exists, err := s.Repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: product", ErrNotFound)
	}
	return s.Repo.ListReviews(ctx, productID)
}
