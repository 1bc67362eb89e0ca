package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/celuvia/backend/internal/application/catalog"
	"github.com/celuvia/backend/internal/domain/account"
	"github.com/celuvia/backend/internal/infrastructure/config"
	"github.com/celuvia/backend/internal/interfaces/http/middleware"
)

// CreateCategoryRequest is the integration request body for a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// IntegrationHandler serves the server-to-server API. Callers
// authenticate with basic credentials; the configured username is the
// email of the vendor account all operations run as.
type IntegrationHandler struct {
	BaseHandler
	cfg             config.IntegrationConfig
	userRepo        account.UserRepository
	storeService    *catalogapp.StoreService
	categoryService *catalogapp.CategoryService
	productService  *catalogapp.ProductService
}

// NewIntegrationHandler creates a new integration handler
func NewIntegrationHandler(
	cfg config.IntegrationConfig,
	userRepo account.UserRepository,
	storeService *catalogapp.StoreService,
	categoryService *catalogapp.CategoryService,
	productService *catalogapp.ProductService,
) *IntegrationHandler {
	return &IntegrationHandler{
		cfg:             cfg,
		userRepo:        userRepo,
		storeService:    storeService,
		categoryService: categoryService,
		productService:  productService,
	}
}

// vendorID resolves the vendor account behind the integration
// credentials
func (h *IntegrationHandler) vendorID(ctx context.Context) (uuid.UUID, error) {
	user, err := h.userRepo.FindByEmail(ctx, h.cfg.Username)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

// ListStores returns the vendor's stores including closed ones
func (h *IntegrationHandler) ListStores(c *gin.Context) {
	vendorID, err := h.vendorID(c.Request.Context())
	if err != nil {
		h.Unauthorized(c, "Integration account not found")
		return
	}

	stores, err := h.storeService.ListOwned(c.Request.Context(), vendorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, storeResponses(stores))
}

// CreateStore opens a store owned by the integration vendor
func (h *IntegrationHandler) CreateStore(c *gin.Context) {
	vendorID, err := h.vendorID(c.Request.Context())
	if err != nil {
		h.Unauthorized(c, "Integration account not found")
		return
	}

	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	store, err := h.storeService.Create(c.Request.Context(), catalogapp.CreateStoreInput{
		OwnerID:     vendorID,
		Name:        req.Name,
		Description: req.Description,
		Email:       req.Email,
		Phone:       req.Phone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, storeResponse(*store))
}

// ListCategories returns all categories
func (h *IntegrationHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		responses[i] = categoryResponse(category)
	}
	h.Success(c, responses)
}

// CreateCategory creates a category, returning the existing one when
// the name is already taken
func (h *IntegrationHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	category, err := h.categoryService.GetOrCreate(c.Request.Context(), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, categoryResponse(*category))
}

// ListStoreProducts returns one store's products including archived
// ones
func (h *IntegrationHandler) ListStoreProducts(c *gin.Context) {
	vendorID, err := h.vendorID(c.Request.Context())
	if err != nil {
		h.Unauthorized(c, "Integration account not found")
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

	page, err := h.productService.ListForStore(c.Request.Context(), storeID, vendorID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, productResponses(page.Products), page.Total, filter.Page, filter.PageSize)
}

// CreateProduct creates a product in one of the vendor's stores
func (h *IntegrationHandler) CreateProduct(c *gin.Context) {
	vendorID, err := h.vendorID(c.Request.Context())
	if err != nil {
		h.Unauthorized(c, "Integration account not found")
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

	small, err := parsePrice(req.SmallPrice)
	if err != nil {
		h.BadRequest(c, "Invalid small price")
		return
	}
	medium, err := parsePrice(req.MediumPrice)
	if err != nil {
		h.BadRequest(c, "Invalid medium price")
		return
	}
	large, err := parsePrice(req.LargePrice)
	if err != nil {
		h.BadRequest(c, "Invalid large price")
		return
	}

	product, err := h.productService.Create(c.Request.Context(), catalogapp.CreateProductInput{
		StoreID:      storeID,
		OwnerID:      vendorID,
		Name:         req.Name,
		Description:  req.Description,
		CategoryName: req.Category,
		SmallPrice:   small,
		MediumPrice:  medium,
		LargePrice:   large,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, productResponse(*product))
}

// RegisterRoutes registers the integration API routes
func (h *IntegrationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	integration := rg.Group("/integration", middleware.RequireIntegrationAuth(h.cfg))
	{
		integration.GET("/stores", h.ListStores)
		integration.POST("/stores", h.CreateStore)
		integration.GET("/categories", h.ListCategories)
		integration.POST("/categories", h.CreateCategory)
		integration.GET("/stores/:id/products", h.ListStoreProducts)
		integration.POST("/products", h.CreateProduct)
	}
}
