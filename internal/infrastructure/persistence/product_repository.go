package persistence

import (
	"context"
	"errors"

	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID loads a product with its Size row
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Sizes").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByStore lists a store's products, including archived ones
func (r *GormProductRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("store_id = ?", storeID)
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []catalog.Product
	err := query.
		Preload("Sizes").
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&products).Error
	return products, total, err
}

// FindPublic lists active products of active stores, optionally narrowed
// to a category
func (r *GormProductRepository) FindPublic(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{})
	if filter.ActiveOnly {
		query = query.
			Joins("JOIN stores ON stores.id = products.store_id").
			Where("products.is_active = ? AND stores.is_active = ?", true, true)
	}
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(products.name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []catalog.Product
	err := query.
		Preload("Sizes").
		Order("products.created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&products).Error
	return products, total, err
}

// ExistsByStoreAndName checks the per-store product name uniqueness
func (r *GormProductRepository) ExistsByStoreAndName(ctx context.Context, storeID uuid.UUID, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("store_id = ? AND name = ?", storeID, name).
		Count(&count).Error
	return count > 0, err
}

// Save persists the product and its Size row in one transaction
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sizes := product.Sizes
		product.Sizes = nil
		if err := tx.Create(product).Error; err != nil {
			product.Sizes = sizes
			return err
		}
		product.Sizes = sizes
		if sizes != nil {
			return tx.Create(sizes).Error
		}
		return nil
	})
}

// Update persists product changes and replaces the Size row
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sizes := product.Sizes
		product.Sizes = nil
		if err := tx.Save(product).Error; err != nil {
			product.Sizes = sizes
			return err
		}
		product.Sizes = sizes
		if sizes != nil {
			return tx.Save(sizes).Error
		}
		return nil
	})
}

// Delete removes a product and its Size row
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&catalog.Size{}, "product_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Product{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
