package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderingapp "github.com/celuvia/backend/internal/application/ordering"
	"github.com/celuvia/backend/internal/domain/ordering"
	"github.com/celuvia/backend/internal/infrastructure/auth"
	"github.com/celuvia/backend/internal/interfaces/http/middleware"
)

// UpdateOrderStatusRequest is the request body for a vendor status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing shipped delivered"`
}

// OrderItemResponse is an order line presented to the client
type OrderItemResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	StoreID     string `json:"store_id"`
	Size        string `json:"size"`
	Frame       string `json:"frame"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

// OrderResponse is an order presented to the client
type OrderResponse struct {
	ID        string              `json:"id"`
	Status    string              `json:"status"`
	Total     string              `json:"total"`
	CreatedAt time.Time           `json:"created_at"`
	Items     []OrderItemResponse `json:"items"`
}

// OrderHandler handles buyer order history and vendor fulfilment
type OrderHandler struct {
	BaseHandler
	jwtService   *auth.JWTService
	orderService *orderingapp.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(jwtService *auth.JWTService, orderService *orderingapp.OrderService) *OrderHandler {
	return &OrderHandler{jwtService: jwtService, orderService: orderService}
}

// ListOrders returns the buyer's orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	views, err := h.orderService.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orderResponses(views))
}

// GetOrder returns one of the buyer's orders
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	view, err := h.orderService.GetMine(c.Request.Context(), orderID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orderResponse(*view))
}

// ListVendorOrders returns orders containing the vendor's items. An
// optional store query parameter narrows the view to one store.
func (h *OrderHandler) ListVendorOrders(c *gin.Context) {
	vendorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var storeID *uuid.UUID
	if raw := c.Query("store"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid store ID")
			return
		}
		storeID = &id
	}

	views, err := h.orderService.ListForVendor(c.Request.Context(), vendorID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orderResponses(views))
}

// UpdateOrderStatus moves an order containing the vendor's items to a
// new fulfilment status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	vendorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	view, err := h.orderService.UpdateStatus(c.Request.Context(), orderingapp.UpdateOrderStatusInput{
		OrderID:  orderID,
		VendorID: vendorID,
		Status:   ordering.OrderStatus(req.Status),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orderResponse(*view))
}

func orderItemResponse(item ordering.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ProductID:   item.ProductID.String(),
		ProductName: item.ProductName,
		StoreID:     item.StoreID.String(),
		Size:        item.Size.String(),
		Frame:       item.Frame.String(),
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice.StringFixed(2),
		Subtotal:    item.Subtotal().StringFixed(2),
	}
}

func orderResponse(view orderingapp.OrderView) OrderResponse {
	items := make([]OrderItemResponse, len(view.Items))
	for i, item := range view.Items {
		items[i] = orderItemResponse(item)
	}
	return OrderResponse{
		ID:        view.ID.String(),
		Status:    view.Status.String(),
		Total:     view.Total.StringFixed(2),
		CreatedAt: view.CreatedAt,
		Items:     items,
	}
}

func orderResponses(views []orderingapp.OrderView) []OrderResponse {
	responses := make([]OrderResponse, len(views))
	for i, view := range views {
		responses[i] = orderResponse(view)
	}
	return responses
}

// RegisterRoutes registers buyer order history and vendor fulfilment
// routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.Use(middleware.RequireAuth(h.jwtService))
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetOrder)

	vendor := rg.Group("/vendor/orders")
	vendor.Use(middleware.RequireAuth(h.jwtService), middleware.RequireVendor())
	vendor.GET("", h.ListVendorOrders)
	vendor.PUT("/:id/status", h.UpdateOrderStatus)
}
