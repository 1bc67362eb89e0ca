package handler

import (
	"time"

	"github.com/shopspring/decimal"

	catalogapp "github.com/celuvia/backend/internal/application/catalog"
	"github.com/celuvia/backend/internal/domain/catalog"
)

// ProductRequest is the request body for listing or editing a product.
// Prices are decimal strings; a missing price means the size is not
// sold.
type ProductRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=5000"`
	Category    string `json:"category" binding:"omitempty,max=100"`
	SmallPrice  string `json:"small_price" binding:"omitempty"`
	MediumPrice string `json:"medium_price" binding:"omitempty"`
	LargePrice  string `json:"large_price" binding:"omitempty"`
}

// CreateProductRequest adds the owning store to a product request
type CreateProductRequest struct {
	ProductRequest
	StoreID string `json:"store_id" binding:"required,uuid"`
}

// SizePricing carries the per-size prices of a product
type SizePricing struct {
	Small  *string `json:"small,omitempty"`
	Medium *string `json:"medium,omitempty"`
	Large  *string `json:"large,omitempty"`
}

// ProductResponse is a product presented to the client
type ProductResponse struct {
	ID          string      `json:"id"`
	StoreID     string      `json:"store_id"`
	CategoryID  string      `json:"category_id,omitempty"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	IsActive    bool        `json:"is_active"`
	Prices      SizePricing `json:"prices"`
	MinPrice    *string     `json:"min_price,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ProductDetailResponse is a product with its store, rating summary,
// and image URL
type ProductDetailResponse struct {
	ProductResponse
	Store         StoreResponse `json:"store"`
	AverageRating float64       `json:"average_rating"`
	ReviewCount   int64         `json:"review_count"`
	ImageURL      string        `json:"image_url,omitempty"`
	FrameColours  []string      `json:"frame_colours"`
}

// ImageUploadRequest asks for a presigned product image upload
type ImageUploadRequest struct {
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required,max=100"`
}

// ImageUploadResponse carries the presigned URL and key to confirm
type ImageUploadResponse struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
}

// ConfirmImageRequest confirms a completed product image upload
type ConfirmImageRequest struct {
	Key string `json:"key" binding:"required,max=500"`
}

func parsePrice(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func priceString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

func productResponse(product catalog.Product) ProductResponse {
	resp := ProductResponse{
		ID:          product.ID.String(),
		StoreID:     product.StoreID.String(),
		Name:        product.Name,
		Description: product.Description,
		IsActive:    product.IsActive,
		MinPrice:    priceString(product.MinPrice()),
		CreatedAt:   product.CreatedAt,
	}
	if product.CategoryID != nil {
		resp.CategoryID = product.CategoryID.String()
	}
	if product.Sizes != nil {
		resp.Prices = SizePricing{
			Small:  priceString(product.Sizes.SmallPrice),
			Medium: priceString(product.Sizes.MediumPrice),
			Large:  priceString(product.Sizes.LargePrice),
		}
	}
	return resp
}

func productResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i, product := range products {
		responses[i] = productResponse(product)
	}
	return responses
}

func productDetailResponse(detail *catalogapp.ProductDetail) ProductDetailResponse {
	colours := make([]string, len(catalog.FrameColours))
	for i, colour := range catalog.FrameColours {
		colours[i] = colour.String()
	}
	return ProductDetailResponse{
		ProductResponse: productResponse(detail.Product),
		Store:           storeResponse(detail.Store),
		AverageRating:   detail.AverageRating,
		ReviewCount:     detail.ReviewCount,
		ImageURL:        detail.ImageURL,
		FrameColours:    colours,
	}
}
