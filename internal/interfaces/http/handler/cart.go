package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderingapp "github.com/celuvia/backend/internal/application/ordering"
	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/domain/ordering"
	"github.com/celuvia/backend/internal/infrastructure/auth"
	"github.com/celuvia/backend/internal/interfaces/http/middleware"
)

// AddCartItemRequest is the request body for adding a cart line
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Size      string `json:"size" binding:"required,oneof=S M L"`
	Frame     string `json:"frame" binding:"required,frame"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest changes a line's quantity; zero removes it
type UpdateCartItemRequest struct {
	LineKey  string `json:"line_key" binding:"required"`
	Quantity int    `json:"quantity" binding:"min=0"`
}

// CartLineResponse is a cart line presented to the client
type CartLineResponse struct {
	Key         string `json:"key"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Size        string `json:"size"`
	Frame       string `json:"frame"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

// CartResponse is the cart presented to the client
type CartResponse struct {
	Lines     []CartLineResponse `json:"lines"`
	ItemCount int                `json:"item_count"`
	Total     string             `json:"total"`
}

// CartHandler handles the session cart endpoints
type CartHandler struct {
	BaseHandler
	jwtService  *auth.JWTService
	cartService *orderingapp.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(jwtService *auth.JWTService, cartService *orderingapp.CartService) *CartHandler {
	return &CartHandler{jwtService: jwtService, cartService: cartService}
}

// GetCart returns the user's cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	view, err := h.cartService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cartResponse(view))
}

// AddItem puts a product variant in the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	view, err := h.cartService.Add(c.Request.Context(), orderingapp.AddToCartInput{
		UserID:    userID,
		ProductID: productID,
		Size:      catalog.SizeCode(req.Size),
		Frame:     catalog.FrameColour(req.Frame),
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cartResponse(view))
}

// UpdateItem changes a line's quantity
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	view, err := h.cartService.UpdateLine(c.Request.Context(), orderingapp.UpdateCartLineInput{
		UserID:   userID,
		LineKey:  req.LineKey,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cartResponse(view))
}

// RemoveItem deletes a line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	key := c.Param("key")
	if key == "" {
		h.BadRequest(c, "Missing line key")
		return
	}

	view, err := h.cartService.Remove(c.Request.Context(), userID, key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cartResponse(view))
}

// ClearCart empties the cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func cartLineResponse(line ordering.CartLine) CartLineResponse {
	return CartLineResponse{
		Key:         line.Key(),
		ProductID:   line.ProductID.String(),
		ProductName: line.ProductName,
		Size:        line.Size.String(),
		Frame:       line.Frame.String(),
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice.StringFixed(2),
		Subtotal:    line.Subtotal().StringFixed(2),
	}
}

func cartResponse(view *orderingapp.CartView) CartResponse {
	lines := make([]CartLineResponse, len(view.Lines))
	for i, line := range view.Lines {
		lines[i] = cartLineResponse(line)
	}
	return CartResponse{
		Lines:     lines,
		ItemCount: view.ItemCount,
		Total:     view.Total.StringFixed(2),
	}
}

// RegisterRoutes registers the cart endpoints behind authentication
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cart := rg.Group("/cart")
	cart.Use(middleware.RequireAuth(h.jwtService))
	cart.GET("", h.GetCart)
	cart.POST("/items", h.AddItem)
	cart.PUT("/items", h.UpdateItem)
	cart.DELETE("/items/:key", h.RemoveItem)
	cart.DELETE("", h.ClearCart)
}
