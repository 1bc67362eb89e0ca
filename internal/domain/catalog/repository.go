package catalog

import (
	"context"

	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StoreRepository persists stores
type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]Store, error)
	FindActive(ctx context.Context, filter shared.Filter) ([]Store, int64, error)
	Save(ctx context.Context, store *Store) error
	Update(ctx context.Context, store *Store) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository persists categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	// GetOrCreateByName returns the existing category with the name or
	// creates a new one
	GetOrCreateByName(ctx context.Context, name string) (*Category, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductFilter narrows product listings
type ProductFilter struct {
	shared.Filter
	CategoryID *uuid.UUID
	// ActiveOnly restricts to purchasable products in active stores
	ActiveOnly bool
}

// ProductRepository persists products and their size pricing
type ProductRepository interface {
	// FindByID loads a product with its Size row
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Product, int64, error)
	// FindPublic lists active products of active stores
	FindPublic(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	ExistsByStoreAndName(ctx context.Context, storeID uuid.UUID, name string) (bool, error)
	// Save persists the product and its Size row atomically
	Save(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReviewRepository persists product reviews
type ReviewRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Review, int64, error)
	// RatingSummary returns the average rating and review count for a product
	RatingSummary(ctx context.Context, productID uuid.UUID) (avg float64, count int64, err error)
	Save(ctx context.Context, review *Review) error
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}
