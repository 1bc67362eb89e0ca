package handler

import "time"

// SignupRequest is the request body for account registration
type SignupRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"required,max=50"`
	Password  string `json:"password" binding:"required,min=8"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`

	AddressLine1 string `json:"address_line1" binding:"omitempty,max=100"`
	AddressLine2 string `json:"address_line2" binding:"omitempty,max=100"`
	Town         string `json:"town" binding:"omitempty,max=50"`
	City         string `json:"city" binding:"omitempty,max=50"`
	Postcode     string `json:"postcode" binding:"omitempty,max=10"`

	AsVendor bool `json:"as_vendor"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest is the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RequestPasswordResetRequest starts the password reset flow
type RequestPasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest redeems a password reset token
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// AuthUserResponse is the user profile returned with tokens
type AuthUserResponse struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	FullName  string   `json:"full_name"`
	Phone     string   `json:"phone,omitempty"`
	Roles     []string `json:"roles"`
}

// AuthResponse is the response body for signup and login
type AuthResponse struct {
	Token TokenResponse    `json:"token"`
	User  AuthUserResponse `json:"user"`
}
