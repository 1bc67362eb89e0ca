package catalog

import (
	"strings"
	"time"

	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a framed image product sold by a store.
// It is the aggregate root for product operations; per-size pricing lives
// on the one-to-one Size row. The active flag archives a product so it is
// no longer purchasable while keeping order history intact.
type Product struct {
	shared.BaseAggregateRoot
	StoreID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_product_store_name,priority:1"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index"`
	Name        string     `gorm:"type:varchar(200);not null;uniqueIndex:idx_product_store_name,priority:2"`
	Description string     `gorm:"type:text"`
	ImageKey    string     `gorm:"type:varchar(500)"` // object storage key
	IsActive    bool       `gorm:"not null;default:true"`
	Sizes       *Size      `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product for a store
func NewProduct(storeID uuid.UUID, name, description string) (*Product, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Product store cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name is required")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		Name:              name,
		Description:       description,
		IsActive:          true,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetImageKey records the object storage key of the uploaded product image
func (p *Product) SetImageKey(key string) error {
	if len(key) > 500 {
		return shared.NewDomainError("INVALID_IMAGE", "Image key cannot exceed 500 characters")
	}

	p.ImageKey = key
	p.UpdatedAt = time.Now()

	return nil
}

// Archive hides the product from buyers while keeping it for order history
func (p *Product) Archive() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Unarchive makes the product purchasable again
func (p *Product) Unarchive() {
	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// PriceFor returns the price for a size code, or nil when the size is
// unknown or not priced
func (p *Product) PriceFor(size SizeCode) *decimal.Decimal {
	if p.Sizes == nil {
		return nil
	}
	return p.Sizes.PriceFor(size)
}

// MinPrice returns the lowest configured per-size price, or nil when the
// product has no prices
func (p *Product) MinPrice() *decimal.Decimal {
	if p.Sizes == nil {
		return nil
	}
	return p.Sizes.MinPrice()
}

// Size holds the optional per-size prices for a product (one-to-one)
type Size struct {
	shared.BaseEntity
	ProductID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	SmallPrice  *decimal.Decimal `gorm:"type:decimal(8,2)"`
	MediumPrice *decimal.Decimal `gorm:"type:decimal(8,2)"`
	LargePrice  *decimal.Decimal `gorm:"type:decimal(8,2)"`
}

// TableName returns the table name for GORM
func (Size) TableName() string {
	return "sizes"
}

// NewSize creates the pricing row for a product. At least one price must
// be set and no price may be negative.
func NewSize(productID uuid.UUID, small, medium, large *decimal.Decimal) (*Size, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Size product cannot be empty")
	}
	if small == nil && medium == nil && large == nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "At least one size price is required")
	}
	for _, price := range []*decimal.Decimal{small, medium, large} {
		if price != nil && price.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Size price cannot be negative")
		}
	}

	return &Size{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		SmallPrice:  small,
		MediumPrice: medium,
		LargePrice:  large,
	}, nil
}

// SetPrices replaces the per-size prices
func (s *Size) SetPrices(small, medium, large *decimal.Decimal) error {
	if small == nil && medium == nil && large == nil {
		return shared.NewDomainError("INVALID_PRICE", "At least one size price is required")
	}
	for _, price := range []*decimal.Decimal{small, medium, large} {
		if price != nil && price.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Size price cannot be negative")
		}
	}

	s.SmallPrice = small
	s.MediumPrice = medium
	s.LargePrice = large
	s.UpdatedAt = time.Now()

	return nil
}

// PriceFor returns the price for a size code, or nil when not priced
func (s *Size) PriceFor(size SizeCode) *decimal.Decimal {
	switch size {
	case SizeSmall:
		return s.SmallPrice
	case SizeMedium:
		return s.MediumPrice
	case SizeLarge:
		return s.LargePrice
	}
	return nil
}

// MinPrice returns the lowest configured price, or nil when none are set
func (s *Size) MinPrice() *decimal.Decimal {
	var min *decimal.Decimal
	for _, price := range []*decimal.Decimal{s.SmallPrice, s.MediumPrice, s.LargePrice} {
		if price == nil {
			continue
		}
		if min == nil || price.LessThan(*min) {
			min = price
		}
	}
	return min
}
