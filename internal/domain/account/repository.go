package account

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists users and role membership
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Save persists the user and its role rows
	Save(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	LoadRoles(ctx context.Context, user *User) error
}

// ResetTokenRepository persists password reset tokens
type ResetTokenRepository interface {
	FindByHash(ctx context.Context, tokenHash string) (*ResetToken, error)
	Save(ctx context.Context, token *ResetToken) error
	Update(ctx context.Context, token *ResetToken) error
	// DeleteExpired removes tokens past their expiry
	DeleteExpired(ctx context.Context) (int64, error)
}

// AddressRepository persists user addresses
type AddressRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Address, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Address, error)
	FindDefaultShipping(ctx context.Context, userID uuid.UUID) (*Address, error)
	FindDefaultBilling(ctx context.Context, userID uuid.UUID) (*Address, error)
	// Save persists the address, clearing sibling default flags in the same
	// transaction so the one-default-per-kind invariant holds
	Save(ctx context.Context, address *Address) error
	Delete(ctx context.Context, id uuid.UUID) error
}
