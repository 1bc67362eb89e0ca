package account

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/celuvia/backend/internal/domain/account"
	"github.com/celuvia/backend/internal/domain/shared"
)

// UserService handles profile management
type UserService struct {
	userRepo account.UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo account.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// GetProfile returns the user's profile
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	info := userInfo(user)
	return &info, nil
}

// UpdateProfile updates name, phone and the signup address fields
func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.UpdateProfile(input.FirstName, input.LastName, input.Phone,
		input.AddressLine1, input.AddressLine2, input.Town, input.City, input.Postcode); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update profile", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update profile")
	}

	s.logger.Info("Profile updated", zap.String("user_id", user.ID.String()))
	info := userInfo(user)
	return &info, nil
}

// ChangePassword verifies the current password and sets a new one
func (s *UserService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if !user.VerifyPassword(input.CurrentPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}

	if err := user.ChangePassword(input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to change password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change password")
	}

	s.logger.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// BecomeVendor grants the vendor role to an existing account
func (s *UserService) BecomeVendor(ctx context.Context, input BecomeVendorInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if user.IsVendor() {
		return nil, shared.NewDomainError("ALREADY_VENDOR", "Account already has the vendor role")
	}

	if err := user.GrantRole(account.RoleVendor); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to grant vendor role", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to grant vendor role")
	}

	s.logger.Info("Vendor role granted", zap.String("user_id", user.ID.String()))
	info := userInfo(user)
	return &info, nil
}
