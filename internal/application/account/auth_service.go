package account

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/celuvia/backend/internal/domain/account"
	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/celuvia/backend/internal/infrastructure/auth"
	"github.com/celuvia/backend/internal/infrastructure/mail"
)

// AuthService handles registration, login, token refresh and the
// password reset flow.
type AuthService struct {
	userRepo   account.UserRepository
	tokenRepo  account.ResetTokenRepository
	addrRepo   account.AddressRepository
	jwtService *auth.JWTService
	mailer     mail.Mailer
	baseURL    string
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo account.UserRepository,
	tokenRepo account.ResetTokenRepository,
	addrRepo account.AddressRepository,
	jwtService *auth.JWTService,
	mailer mail.Mailer,
	baseURL string,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		addrRepo:   addrRepo,
		jwtService: jwtService,
		mailer:     mailer,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// Signup registers a new account. Every account starts as a buyer;
// vendor signups get both roles. When the form carried an address it is
// seeded as the default shipping address.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create account")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	user, err := account.NewUser(input.Email, input.FirstName, input.LastName, input.Password)
	if err != nil {
		return nil, err
	}
	user.Phone = input.Phone
	user.AddressLine1 = input.AddressLine1
	user.AddressLine2 = input.AddressLine2
	user.Town = input.Town
	user.City = input.City
	user.Postcode = input.Postcode

	if err := user.GrantRole(account.RoleBuyer); err != nil {
		return nil, err
	}
	if input.AsVendor {
		if err := user.GrantRole(account.RoleVendor); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save new user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create account")
	}

	if user.HasSignupAddress() {
		s.seedDefaultAddress(ctx, user)
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.Bool("vendor", input.AsVendor))

	return s.authResult(user)
}

// Login authenticates by email and password
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Warn("Login for unknown email", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return s.authResult(user)
}

// Refresh exchanges a valid refresh token for a fresh token pair
func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (*RefreshResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		default:
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	// Roles are reloaded so revocations take effect on refresh
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Refresh for missing user", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Roles)
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh tokens")
	}

	return &RefreshResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// RequestPasswordReset creates a reset token and emails the reset link.
// Unknown emails return success so the endpoint cannot be used to probe
// for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, input RequestPasswordResetInput) error {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("Password reset for unknown email", zap.String("email", input.Email))
			return nil
		}
		s.logger.Error("Failed to look up user for password reset", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to process reset request")
	}

	token, plaintext, err := account.NewResetToken(user.ID, account.DefaultResetTokenTTL)
	if err != nil {
		s.logger.Error("Failed to create reset token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to process reset request")
	}

	if err := s.tokenRepo.Save(ctx, token); err != nil {
		s.logger.Error("Failed to save reset token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to process reset request")
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, url.QueryEscape(plaintext))
	body, err := mail.RenderPasswordReset(mail.PasswordResetData{
		Name:     user.FirstName,
		ResetURL: resetURL,
		TTLHours: int(account.DefaultResetTokenTTL.Hours()),
	})
	if err != nil {
		s.logger.Error("Failed to render reset email", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to process reset request")
	}

	if err := s.mailer.Send(user.Email, "Reset your password", body); err != nil {
		s.logger.Error("Failed to send reset email", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to send reset email")
	}

	s.logger.Info("Password reset requested", zap.String("user_id", user.ID.String()))
	return nil
}

// ResetPassword redeems a reset token and sets the new password
func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	token, err := s.tokenRepo.FindByHash(ctx, account.HashResetToken(input.Token))
	if err != nil {
		return shared.NewDomainError("TOKEN_INVALID", "Reset token is invalid")
	}

	if err := token.MarkUsed(); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(input.NewPassword); err != nil {
		return err
	}

	// Consume the token before touching the password; a failed token
	// update must not leave the token redeemable.
	if err := s.tokenRepo.Update(ctx, token); err != nil {
		s.logger.Error("Failed to consume reset token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	s.logger.Info("Password reset completed", zap.String("user_id", user.ID.String()))
	return nil
}

// PurgeExpiredResetTokens removes stale reset tokens. Intended to run
// periodically.
func (s *AuthService) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	removed, err := s.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error("Failed to purge reset tokens", zap.Error(err))
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("Purged expired reset tokens", zap.Int64("count", removed))
	}
	return removed, nil
}

func (s *AuthService) authResult(user *account.User) (*AuthResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Roles)
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	return &AuthResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  userInfo(user),
	}, nil
}

// seedDefaultAddress copies the signup address into the address book.
// Signup must not fail when this does.
func (s *AuthService) seedDefaultAddress(ctx context.Context, user *account.User) {
	addr, err := account.NewAddress(user.ID, user.FullName,
		user.AddressLine1, user.AddressLine2, user.Town, user.City, user.Postcode, user.Phone)
	if err != nil {
		s.logger.Warn("Signup address incomplete, skipping seed",
			zap.String("user_id", user.ID.String()), zap.Error(err))
		return
	}
	addr.MarkDefaultShipping()
	addr.MarkDefaultBilling()

	if err := s.addrRepo.Save(ctx, addr); err != nil {
		s.logger.Warn("Failed to seed default address",
			zap.String("user_id", user.ID.String()), zap.Error(err))
	}
}
