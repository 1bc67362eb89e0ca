package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/celuvia/backend/internal/domain/account"
	"github.com/celuvia/backend/internal/domain/shared"
)

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("changes the password when the current one matches", func(t *testing.T) {
		user := newTestUser(t, "ada@example.com")
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("Update", ctx, user).Return(nil)

		svc := NewUserService(userRepo, zap.NewNop())
		require.NoError(t, svc.ChangePassword(ctx, ChangePasswordInput{
			UserID:          user.ID,
			CurrentPassword: "password123",
			NewPassword:     "even-better-pass",
		}))
		assert.True(t, user.VerifyPassword("even-better-pass"))
	})

	t.Run("rejects a wrong current password", func(t *testing.T) {
		user := newTestUser(t, "ada@example.com")
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

		svc := NewUserService(userRepo, zap.NewNop())
		err := svc.ChangePassword(ctx, ChangePasswordInput{
			UserID:          user.ID,
			CurrentPassword: "nope",
			NewPassword:     "even-better-pass",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})
}

func TestUserService_BecomeVendor(t *testing.T) {
	ctx := context.Background()

	t.Run("grants the vendor role", func(t *testing.T) {
		user := newTestUser(t, "ada@example.com")
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("Update", ctx, user).Return(nil)

		svc := NewUserService(userRepo, zap.NewNop())
		info, err := svc.BecomeVendor(ctx, BecomeVendorInput{UserID: user.ID})

		require.NoError(t, err)
		assert.Contains(t, info.Roles, account.RoleVendor)
	})

	t.Run("rejects an existing vendor", func(t *testing.T) {
		user := newTestUser(t, "ada@example.com")
		require.NoError(t, user.GrantRole(account.RoleVendor))
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

		svc := NewUserService(userRepo, zap.NewNop())
		_, err := svc.BecomeVendor(ctx, BecomeVendorInput{UserID: user.ID})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_VENDOR", domainErr.Code)
	})
}

func TestAddressService_Ownership(t *testing.T) {
	ctx := context.Background()
	owner := newTestUser(t, "owner@example.com")
	other := newTestUser(t, "other@example.com")

	addr, err := account.NewAddress(owner.ID, "Ada Lovelace", "1 Analytical Way", "", "", "London", "EC1A 1AA", "")
	require.NoError(t, err)

	addrRepo := new(MockAddressRepository)
	addrRepo.On("FindByID", ctx, addr.ID).Return(addr, nil)

	svc := NewAddressService(addrRepo, zap.NewNop())
	err = svc.Delete(ctx, addr.ID, other.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}
