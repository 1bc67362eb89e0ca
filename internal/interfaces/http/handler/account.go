package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accountapp "github.com/celuvia/backend/internal/application/account"
	"github.com/celuvia/backend/internal/domain/account"
	"github.com/celuvia/backend/internal/infrastructure/auth"
	"github.com/celuvia/backend/internal/interfaces/http/middleware"
)

// UpdateProfileRequest is the request body for profile updates
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"required,max=50"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`
}

// ChangePasswordRequest is the request body for password changes
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// AddressRequest is the request body for creating or updating an address
type AddressRequest struct {
	FullName        string `json:"full_name" binding:"required,max=100"`
	Line1           string `json:"line1" binding:"required,max=250"`
	Line2           string `json:"line2" binding:"omitempty,max=250"`
	Town            string `json:"town" binding:"omitempty,max=100"`
	City            string `json:"city" binding:"required,max=100"`
	Postcode        string `json:"postcode" binding:"required,max=100"`
	Phone           string `json:"phone" binding:"omitempty,max=20"`
	DefaultShipping bool   `json:"default_shipping"`
	DefaultBilling  bool   `json:"default_billing"`
}

// AddressResponse is an address presented to the client
type AddressResponse struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	Town       string `json:"town,omitempty"`
	City       string `json:"city"`
	Postcode   string `json:"postcode"`
	Phone      string `json:"phone,omitempty"`
	IsDefault  bool   `json:"is_default"`
	IsShipping bool   `json:"is_shipping"`
	IsBilling  bool   `json:"is_billing"`
}

// AccountHandler handles profile and address book endpoints
type AccountHandler struct {
	BaseHandler
	jwtService     *auth.JWTService
	userService    *accountapp.UserService
	addressService *accountapp.AddressService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(jwtService *auth.JWTService, userService *accountapp.UserService, addressService *accountapp.AddressService) *AccountHandler {
	return &AccountHandler{
		jwtService:     jwtService,
		userService:    userService,
		addressService: addressService,
	}
}

// GetProfile returns the authenticated user's profile
func (h *AccountHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	info, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, authUserResponse(*info))
}

// UpdateProfile edits the authenticated user's profile
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	info, err := h.userService.UpdateProfile(c.Request.Context(), accountapp.UpdateProfileInput{
		UserID:    userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, authUserResponse(*info))
}

// ChangePassword changes the password after verifying the current one
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), accountapp.ChangePasswordInput{
		UserID:          userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password updated"})
}

// BecomeVendor grants the vendor role and returns a fresh token pair
// carrying it
func (h *AccountHandler) BecomeVendor(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	info, err := h.userService.BecomeVendor(c.Request.Context(), accountapp.BecomeVendorInput{UserID: userID})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	pair, err := h.jwtService.GenerateTokenPair(info.ID, info.Email, info.Roles)
	if err != nil {
		h.InternalError(c, "Failed to issue tokens")
		return
	}

	h.Success(c, AuthResponse{
		Token: TokenResponse{
			AccessToken:           pair.AccessToken,
			RefreshToken:          pair.RefreshToken,
			AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
			TokenType:             pair.TokenType,
		},
		User: authUserResponse(*info),
	})
}

// ListAddresses returns the user's address book
func (h *AccountHandler) ListAddresses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	addresses, err := h.addressService.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, addressResponses(addresses))
}

// CreateAddress adds an address to the user's address book
func (h *AccountHandler) CreateAddress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	address, err := h.addressService.Create(c.Request.Context(), addressInput(userID, req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, addressResponse(*address))
}

// UpdateAddress edits an address in the user's address book
func (h *AccountHandler) UpdateAddress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	addressID, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid address ID")
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	address, err := h.addressService.Update(c.Request.Context(), addressID, addressInput(userID, req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, addressResponse(*address))
}

// DeleteAddress removes an address from the user's address book
func (h *AccountHandler) DeleteAddress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	addressID, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid address ID")
		return
	}

	if err := h.addressService.Delete(c.Request.Context(), addressID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func addressInput(userID uuid.UUID, req AddressRequest) accountapp.AddressInput {
	return accountapp.AddressInput{
		UserID:          userID,
		FullName:        req.FullName,
		Line1:           req.Line1,
		Line2:           req.Line2,
		Town:            req.Town,
		City:            req.City,
		Postcode:        req.Postcode,
		Phone:           req.Phone,
		DefaultShipping: req.DefaultShipping,
		DefaultBilling:  req.DefaultBilling,
	}
}

func addressResponse(address account.Address) AddressResponse {
	return AddressResponse{
		ID:         address.ID.String(),
		FullName:   address.FullName,
		Line1:      address.Line1,
		Line2:      address.Line2,
		Town:       address.Town,
		City:       address.City,
		Postcode:   address.Postcode,
		Phone:      address.Phone,
		IsDefault:  address.IsDefault,
		IsShipping: address.IsShipping,
		IsBilling:  address.IsBilling,
	}
}

func addressResponses(addresses []account.Address) []AddressResponse {
	responses := make([]AddressResponse, len(addresses))
	for i, address := range addresses {
		responses[i] = addressResponse(address)
	}
	return responses
}

// RegisterRoutes registers the account endpoints behind authentication
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	acct := rg.Group("/account")
	acct.Use(middleware.RequireAuth(h.jwtService))
	acct.GET("/profile", h.GetProfile)
	acct.PUT("/profile", h.UpdateProfile)
	acct.PUT("/password", h.ChangePassword)
	acct.POST("/vendor", h.BecomeVendor)
	acct.GET("/addresses", h.ListAddresses)
	acct.POST("/addresses", h.CreateAddress)
	acct.PUT("/addresses/:id", h.UpdateAddress)
	acct.DELETE("/addresses/:id", h.DeleteAddress)
}
