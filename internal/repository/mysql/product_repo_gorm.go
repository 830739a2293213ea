package mysql

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if filter.ProductType != "" {
		q = q.Where("product_type = ?", filter.ProductType)
	}
	if filter.MinPrice > 0 {
		q = q.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		q = q.Where("price <= ?", filter.MaxPrice)
	}
	switch filter.PriceSort {
	case "asc":
		q = q.Order("price ASC")
	case "desc":
		q = q.Order("price DESC")
	default:
		q = q.Order("created_at DESC")
	}

	var out []domain.Product
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a product. Products referenced by order items are
// protected by the restrict constraint and surface as ErrRestricted.
func (r *productRepo) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
