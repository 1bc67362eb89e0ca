package handler

import (
	"github.com/gin-gonic/gin"

	accountapp "github.com/celuvia/backend/internal/application/account"
	"github.com/celuvia/backend/internal/domain/account"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService *accountapp.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *accountapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup registers a new account and returns a token pair
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), accountapp.SignupInput{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Password:     req.Password,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		Town:         req.Town,
		City:         req.City,
		Postcode:     req.Postcode,
		AsVendor:     req.AsVendor,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, authResponse(result))
}

// Login authenticates with email and password
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), accountapp.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, authResponse(result))
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), accountapp.RefreshInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, TokenResponse{
		AccessToken:           result.AccessToken,
		RefreshToken:          result.RefreshToken,
		AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
		TokenType:             result.TokenType,
	})
}

// RequestPasswordReset emails a reset link. The response is the same
// whether or not the address has an account.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req RequestPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), accountapp.RequestPasswordResetInput{
		Email: req.Email,
	}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "If the address has an account, a reset email has been sent"})
}

// ResetPassword redeems a reset token and sets a new password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), accountapp.ResetPasswordInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password updated"})
}

func authResponse(result *accountapp.AuthResult) AuthResponse {
	return AuthResponse{
		Token: TokenResponse{
			AccessToken:           result.AccessToken,
			RefreshToken:          result.RefreshToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
		User: authUserResponse(result.User),
	}
}

func authUserResponse(user accountapp.UserInfo) AuthUserResponse {
	return AuthUserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		FullName:  user.FullName,
		Phone:     user.Phone,
		Roles:     roleNames(user.Roles),
	}
}

func roleNames(roles []account.Role) []string {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	return names
}

// RegisterRoutes registers the auth endpoints
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/signup", h.Signup)
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.Refresh)
	auth.POST("/password-reset/request", h.RequestPasswordReset)
	auth.POST("/password-reset/confirm", h.ResetPassword)
}
