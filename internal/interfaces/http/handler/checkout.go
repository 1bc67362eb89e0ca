package handler

import (
	"github.com/gin-gonic/gin"

	orderingapp "github.com/celuvia/backend/internal/application/ordering"
	"github.com/celuvia/backend/internal/infrastructure/auth"
	"github.com/celuvia/backend/internal/infrastructure/payment"
	"github.com/celuvia/backend/internal/interfaces/http/middleware"
)

// CheckoutAddressRequest is an address entered on the checkout form
type CheckoutAddressRequest struct {
	FullName string `json:"full_name" binding:"required,max=100"`
	Line1    string `json:"line1" binding:"required,max=100"`
	Line2    string `json:"line2" binding:"max=100"`
	Town     string `json:"town" binding:"max=100"`
	City     string `json:"city" binding:"required,max=100"`
	Postcode string `json:"postcode" binding:"required,max=20"`
	Phone    string `json:"phone" binding:"max=20"`
}

// CreateCheckoutRequest starts a hosted checkout; both addresses are
// optional and fall back to the buyer's stored defaults
type CreateCheckoutRequest struct {
	ShippingAddress *CheckoutAddressRequest `json:"shipping_address"`
	BillingAddress  *CheckoutAddressRequest `json:"billing_address"`
}

// CheckoutResponse carries the hosted payment page URL
type CheckoutResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// CheckoutHandler starts hosted checkout sessions
type CheckoutHandler struct {
	BaseHandler
	jwtService      *auth.JWTService
	checkoutService *orderingapp.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(jwtService *auth.JWTService, checkoutService *orderingapp.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{jwtService: jwtService, checkoutService: checkoutService}
}

// CreateSession creates a hosted checkout session for the user's cart.
// The order is created later, when the payment webhook confirms
// completion.
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateCheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindingError(c, err)
			return
		}
	}

	result, err := h.checkoutService.CreateSession(c.Request.Context(), orderingapp.CheckoutInput{
		UserID:          userID,
		ShippingAddress: checkoutAddress(req.ShippingAddress),
		BillingAddress:  checkoutAddress(req.BillingAddress),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CheckoutResponse{
		SessionID:   result.SessionID,
		CheckoutURL: result.CheckoutURL,
	})
}

func checkoutAddress(req *CheckoutAddressRequest) *payment.CheckoutAddress {
	if req == nil {
		return nil
	}
	return &payment.CheckoutAddress{
		FullName: req.FullName,
		Line1:    req.Line1,
		Line2:    req.Line2,
		Town:     req.Town,
		City:     req.City,
		Postcode: req.Postcode,
		Phone:    req.Phone,
	}
}

// RegisterRoutes registers the checkout endpoint behind authentication
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	checkout := rg.Group("/checkout")
	checkout.Use(middleware.RequireAuth(h.jwtService))
	checkout.POST("/session", h.CreateSession)
}
