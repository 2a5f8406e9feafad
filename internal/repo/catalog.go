package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vkotelev/foodline/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Preload("Images").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := r.fillRatings(ctx, []*models.Product{&product}); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Preload("Images").
		Order("created_at ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}

	ptrs := make([]*models.Product, len(items))
	for i := range items {
		ptrs[i] = &items[i]
	}
	if err := r.fillRatings(ctx, ptrs); err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Create(product).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(product).Error
}

// DeleteProduct removes the product together with its image rows and any
// live cart entries referencing it. Placed orders keep their snapshots.
// Returns the released image URLs.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) ([]string, error) {
	var urls []string

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Preload("Images").First(&product, "id = ?", id).Error; err != nil {
			return err
		}
		for _, img := range product.Images {
			urls = append(urls, img.URL)
		}

		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return urls, nil
}

func (r *GormRepo) fillRatings(ctx context.Context, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	var rows []struct {
		ProductID uuid.UUID
		Avg       float64
		Cnt       int64
	}
	if err := r.DB.WithContext(ctx).Model(&models.Review{}).
		Select("product_id, AVG(rating) AS avg, COUNT(*) AS cnt").
		Where("product_id IN ?", ids).
		Group("product_id").
		Scan(&rows).Error; err != nil {
		return err
	}

	byID := make(map[uuid.UUID]struct {
		avg float64
		cnt int64
	}, len(rows))
	for _, row := range rows {
		byID[row.ProductID] = struct {
			avg float64
			cnt int64
		}{row.Avg, row.Cnt}
	}
	for _, p := range products {
		if agg, ok := byID[p.ID]; ok {
			p.Rating = agg.avg
			p.ReviewCount = agg.cnt
		}
	}
	return nil
}
