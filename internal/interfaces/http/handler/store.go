package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/celuvia/backend/internal/application/catalog"
	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/infrastructure/auth"
	"github.com/celuvia/backend/internal/interfaces/http/middleware"
)

// StoreRequest is the request body for opening or editing a store
type StoreRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"required,max=20"`
}

// StoreResponse is a store presented to the client
type StoreResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	IsActive    bool   `json:"is_active"`
}

// StoreHandler handles public store browsing and vendor store management
type StoreHandler struct {
	BaseHandler
	jwtService   *auth.JWTService
	storeService *catalogapp.StoreService
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(jwtService *auth.JWTService, storeService *catalogapp.StoreService) *StoreHandler {
	return &StoreHandler{jwtService: jwtService, storeService: storeService}
}

// ListStores returns active stores
func (h *StoreHandler) ListStores(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	stores, total, err := h.storeService.ListPublic(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, storeResponses(stores), total, filter.Page, filter.PageSize)
}

// GetStore returns one store
func (h *StoreHandler) GetStore(c *gin.Context) {
	storeID, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	store, err := h.storeService.Get(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, storeResponse(*store))
}

// ListOwnStores returns the vendor's stores, closed ones included
func (h *StoreHandler) ListOwnStores(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	stores, err := h.storeService.ListOwned(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, storeResponses(stores))
}

// CreateStore opens a new store for the vendor
func (h *StoreHandler) CreateStore(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	store, err := h.storeService.Create(c.Request.Context(), catalogapp.CreateStoreInput{
		OwnerID:     ownerID,
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

// UpdateStore edits one of the vendor's stores
func (h *StoreHandler) UpdateStore(c *gin.Context) {
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

	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	store, err := h.storeService.Update(c.Request.Context(), catalogapp.UpdateStoreInput{
		StoreID:     storeID,
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Email:       req.Email,
		Phone:       req.Phone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, storeResponse(*store))
}

// CloseStore closes a store; its products stop being purchasable
func (h *StoreHandler) CloseStore(c *gin.Context) {
	h.setStoreActive(c, false)
}

// ReopenStore reopens a closed store
func (h *StoreHandler) ReopenStore(c *gin.Context) {
	h.setStoreActive(c, true)
}

func (h *StoreHandler) setStoreActive(c *gin.Context, active bool) {
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

	if active {
		err = h.storeService.Reopen(c.Request.Context(), storeID, ownerID)
	} else {
		err = h.storeService.Close(c.Request.Context(), storeID, ownerID)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func storeResponse(store catalog.Store) StoreResponse {
	return StoreResponse{
		ID:          store.ID.String(),
		Name:        store.Name,
		Description: store.Description,
		Email:       store.Email,
		Phone:       store.Phone,
		IsActive:    store.IsActive,
	}
}

func storeResponses(stores []catalog.Store) []StoreResponse {
	responses := make([]StoreResponse, len(stores))
	for i, store := range stores {
		responses[i] = storeResponse(store)
	}
	return responses
}

// RegisterRoutes registers public browsing and vendor store management
func (h *StoreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stores := rg.Group("/stores")
	stores.GET("", h.ListStores)
	stores.GET("/:id", h.GetStore)

	vendor := rg.Group("/vendor/stores")
	vendor.Use(middleware.RequireAuth(h.jwtService), middleware.RequireVendor())
	vendor.GET("", h.ListOwnStores)
	vendor.POST("", h.CreateStore)
	vendor.PUT("/:id", h.UpdateStore)
	vendor.POST("/:id/close", h.CloseStore)
	vendor.POST("/:id/reopen", h.ReopenStore)
}
