package persistence

import (
	"context"
	"errors"

	"github.com/celuvia/backend/internal/domain/account"
	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAddressRepository implements account.AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindByID finds an address by ID
func (r *GormAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*account.Address, error) {
	var address account.Address
	if err := r.db.WithContext(ctx).First(&address, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &address, nil
}

// FindByUser returns all addresses of a user, default first
func (r *GormAddressRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]account.Address, error) {
	var addresses []account.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&addresses).Error
	return addresses, err
}

// FindDefaultShipping returns the user's default shipping address
func (r *GormAddressRepository) FindDefaultShipping(ctx context.Context, userID uuid.UUID) (*account.Address, error) {
	return r.findDefault(ctx, userID, "is_shipping")
}

// FindDefaultBilling returns the user's default billing address
func (r *GormAddressRepository) FindDefaultBilling(ctx context.Context, userID uuid.UUID) (*account.Address, error) {
	return r.findDefault(ctx, userID, "is_billing")
}

func (r *GormAddressRepository) findDefault(ctx context.Context, userID uuid.UUID, kindColumn string) (*account.Address, error) {
	var address account.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_default = ? AND "+kindColumn+" = ?", userID, true, true).
		First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &address, nil
}

// Save persists the address. When it is flagged as a default shipping or
// billing address, sibling defaults of the same kind are cleared in the
// same transaction.
func (r *GormAddressRepository) Save(ctx context.Context, address *account.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if address.IsDefault && address.IsShipping {
			if err := r.clearDefaults(tx, address, "is_shipping"); err != nil {
				return err
			}
		}
		if address.IsDefault && address.IsBilling {
			if err := r.clearDefaults(tx, address, "is_billing"); err != nil {
				return err
			}
		}
		return tx.Save(address).Error
	})
}

func (r *GormAddressRepository) clearDefaults(tx *gorm.DB, address *account.Address, kindColumn string) error {
	return tx.Model(&account.Address{}).
		Where("user_id = ? AND id <> ? AND is_default = ? AND "+kindColumn+" = ?",
			address.UserID, address.ID, true, true).
		Update("is_default", false).Error
}

// Delete removes an address
func (r *GormAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&account.Address{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
