package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/celuvia/backend/internal/domain/account"
)

// SignupInput contains the input for account registration
type SignupInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	Phone     string
	// Optional signup address, seeded as the default shipping address
	AddressLine1 string
	AddressLine2 string
	Town         string
	City         string
	Postcode     string
	// AsVendor also grants the vendor role
	AsVendor bool
}

// LoginInput contains the input for login
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult contains the tokens and user info returned after signup or
// login
type AuthResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information
type UserInfo struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	FullName  string
	Phone     string
	Roles     []account.Role
}

// RefreshInput contains the input for token refresh
type RefreshInput struct {
	RefreshToken string
}

// RefreshResult contains the refreshed token pair
type RefreshResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// UpdateProfileInput contains the input for profile updates
type UpdateProfileInput struct {
	UserID       uuid.UUID
	FirstName    string
	LastName     string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	Town         string
	City         string
	Postcode     string
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// RequestPasswordResetInput starts the password reset flow
type RequestPasswordResetInput struct {
	Email string
}

// ResetPasswordInput redeems a reset token
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// BecomeVendorInput grants the vendor role to an existing buyer
type BecomeVendorInput struct {
	UserID uuid.UUID
}

// AddressInput contains the input for creating or updating an address
type AddressInput struct {
	UserID          uuid.UUID
	FullName        string
	Line1           string
	Line2           string
	Town            string
	City            string
	Postcode        string
	Phone           string
	DefaultShipping bool
	DefaultBilling  bool
}

func userInfo(user *account.User) UserInfo {
	return UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		FullName:  user.FullName,
		Phone:     user.Phone,
		Roles:     user.Roles,
	}
}
