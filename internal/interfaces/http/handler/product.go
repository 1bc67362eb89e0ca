package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/celuvia/backend/internal/application/catalog"
	"github.com/celuvia/backend/internal/infrastructure/auth"
	"github.com/celuvia/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles public product browsing and vendor catalogue
// management
type ProductHandler struct {
	BaseHandler
	jwtService     *auth.JWTService
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(jwtService *auth.JWTService, productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{jwtService: jwtService, productService: productService}
}

// ListProducts returns purchasable products, optionally narrowed by
// category slug
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	page, err := h.productService.ListPublic(c.Request.Context(), catalogapp.ListProductsInput{
		Filter:       filter,
		CategorySlug: c.Query("category"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, productResponses(page.Products), page.Total, filter.Page, filter.PageSize)
}

// GetProduct returns a product with its store and rating summary
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	detail, err := h.productService.GetDetail(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, productDetailResponse(detail))
}

// ListStoreProducts returns a vendor's own products for one store,
// archived ones included
func (h *ProductHandler) ListStoreProducts(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	storeID, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	page, err := h.productService.ListForStore(c.Request.Context(), storeID, ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, productResponses(page.Products), page.Total, filter.Page, filter.PageSize)
}

// CreateProduct lists a product in one of the vendor's stores
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	input := catalogapp.CreateProductInput{
		StoreID:      storeID,
		OwnerID:      ownerID,
		Name:         req.Name,
		Description:  req.Description,
		CategoryName: req.Category,
	}
	if input.SmallPrice, err = parsePrice(req.SmallPrice); err != nil {
		h.BadRequest(c, "Invalid small price")
		return
	}
	if input.MediumPrice, err = parsePrice(req.MediumPrice); err != nil {
		h.BadRequest(c, "Invalid medium price")
		return
	}
	if input.LargePrice, err = parsePrice(req.LargePrice); err != nil {
		h.BadRequest(c, "Invalid large price")
		return
	}

	product, err := h.productService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, productResponse(*product))
}

// UpdateProduct edits one of the vendor's products
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	input := catalogapp.UpdateProductInput{
		ProductID:    productID,
		OwnerID:      ownerID,
		Name:         req.Name,
		Description:  req.Description,
		CategoryName: req.Category,
	}
	if input.SmallPrice, err = parsePrice(req.SmallPrice); err != nil {
		h.BadRequest(c, "Invalid small price")
		return
	}
	if input.MediumPrice, err = parsePrice(req.MediumPrice); err != nil {
		h.BadRequest(c, "Invalid medium price")
		return
	}
	if input.LargePrice, err = parsePrice(req.LargePrice); err != nil {
		h.BadRequest(c, "Invalid large price")
		return
	}

	product, err := h.productService.Update(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, productResponse(*product))
}

// ArchiveProduct hides a product from the storefront
func (h *ProductHandler) ArchiveProduct(c *gin.Context) {
	h.setProductActive(c, false)
}

// UnarchiveProduct restores an archived product
func (h *ProductHandler) UnarchiveProduct(c *gin.Context) {
	h.setProductActive(c, true)
}

func (h *ProductHandler) setProductActive(c *gin.Context, active bool) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if active {
		err = h.productService.Unarchive(c.Request.Context(), productID, ownerID)
	} else {
		err = h.productService.Archive(c.Request.Context(), productID, ownerID)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DeleteProduct removes a product and its stored image
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), productID, ownerID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RequestImageUpload returns a presigned URL for a product image
func (h *ProductHandler) RequestImageUpload(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.productService.RequestImageUpload(c.Request.Context(), catalogapp.ImageUploadInput{
		ProductID:   productID,
		OwnerID:     ownerID,
		Filename:    req.Filename,
		ContentType: req.ContentType,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ImageUploadResponse{UploadURL: result.UploadURL, Key: result.Key})
}

// ConfirmImageUpload attaches an uploaded image to the product
func (h *ProductHandler) ConfirmImageUpload(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req ConfirmImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if err := h.productService.ConfirmImageUpload(c.Request.Context(), productID, ownerID, req.Key); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers public browsing and vendor catalogue routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", h.ListProducts)
	products.GET("/:id", h.GetProduct)

	vendor := rg.Group("/vendor")
	vendor.Use(middleware.RequireAuth(h.jwtService), middleware.RequireVendor())
	vendor.GET("/stores/:id/products", h.ListStoreProducts)
	vendor.POST("/products", h.CreateProduct)
	vendor.PUT("/products/:id", h.UpdateProduct)
	vendor.POST("/products/:id/archive", h.ArchiveProduct)
	vendor.POST("/products/:id/unarchive", h.UnarchiveProduct)
	vendor.DELETE("/products/:id", h.DeleteProduct)
	vendor.POST("/products/:id/image", h.RequestImageUpload)
	vendor.POST("/products/:id/image/confirm", h.ConfirmImageUpload)
}
