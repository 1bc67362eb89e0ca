package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/domain/shared"
)

// CreateStoreInput contains the input for opening a store
type CreateStoreInput struct {
	OwnerID     uuid.UUID
	Name        string
	Description string
	Email       string
	Phone       string
}

// UpdateStoreInput contains the input for editing a store
type UpdateStoreInput struct {
	StoreID     uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	Email       string
	Phone       string
}

// CreateProductInput contains the input for listing a product
type CreateProductInput struct {
	StoreID      uuid.UUID
	OwnerID      uuid.UUID
	Name         string
	Description  string
	CategoryName string
	SmallPrice   *decimal.Decimal
	MediumPrice  *decimal.Decimal
	LargePrice   *decimal.Decimal
}

// UpdateProductInput contains the input for editing a product
type UpdateProductInput struct {
	ProductID    uuid.UUID
	OwnerID      uuid.UUID
	Name         string
	Description  string
	CategoryName string
	SmallPrice   *decimal.Decimal
	MediumPrice  *decimal.Decimal
	LargePrice   *decimal.Decimal
}

// ListProductsInput narrows the public product listing
type ListProductsInput struct {
	Filter       shared.Filter
	CategorySlug string
}

// ProductPage is one page of a product listing
type ProductPage struct {
	Products []catalog.Product
	Total    int64
}

// ProductDetail is a product with its store and rating summary
type ProductDetail struct {
	Product       catalog.Product
	Store         catalog.Store
	AverageRating float64
	ReviewCount   int64
	ImageURL      string
}

// CreateReviewInput contains the input for reviewing a product
type CreateReviewInput struct {
	ProductID uuid.UUID
	UserID    uuid.UUID
	Rating    int
	Comment   string
}

// UpdateReviewInput contains the input for editing a review
type UpdateReviewInput struct {
	ReviewID uuid.UUID
	UserID   uuid.UUID
	Rating   int
	Comment  string
}

// ReviewPage is one page of reviews with the product's rating summary
type ReviewPage struct {
	Reviews       []catalog.Review
	Total         int64
	AverageRating float64
}

// ImageUploadInput requests a presigned upload for a product image
type ImageUploadInput struct {
	ProductID   uuid.UUID
	OwnerID     uuid.UUID
	Filename    string
	ContentType string
}

// ImageUploadResult carries the presigned upload URL and the key the
// client must confirm after uploading
type ImageUploadResult struct {
	UploadURL string
	Key       string
}
