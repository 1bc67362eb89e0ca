package account

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/celuvia/backend/internal/domain/account"
	"github.com/celuvia/backend/internal/domain/shared"
)

// AddressService manages a user's address book
type AddressService struct {
	addrRepo account.AddressRepository
	logger   *zap.Logger
}

func NewAddressService(addrRepo account.AddressRepository, logger *zap.Logger) *AddressService {
	return &AddressService{addrRepo: addrRepo, logger: logger}
}

// List returns the user's addresses, defaults first
func (s *AddressService) List(ctx context.Context, userID uuid.UUID) ([]account.Address, error) {
	return s.addrRepo.FindByUser(ctx, userID)
}

// Create adds a new address to the user's book
func (s *AddressService) Create(ctx context.Context, input AddressInput) (*account.Address, error) {
	addr, err := account.NewAddress(input.UserID, input.FullName,
		input.Line1, input.Line2, input.Town, input.City, input.Postcode, input.Phone)
	if err != nil {
		return nil, err
	}
	if input.DefaultShipping {
		addr.MarkDefaultShipping()
	}
	if input.DefaultBilling {
		addr.MarkDefaultBilling()
	}

	if err := s.addrRepo.Save(ctx, addr); err != nil {
		s.logger.Error("Failed to save address", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save address")
	}

	return addr, nil
}

// Update replaces the fields of an existing address. Only the owner may
// update it.
func (s *AddressService) Update(ctx context.Context, addressID uuid.UUID, input AddressInput) (*account.Address, error) {
	addr, err := s.findOwned(ctx, addressID, input.UserID)
	if err != nil {
		return nil, err
	}

	updated, err := account.NewAddress(input.UserID, input.FullName,
		input.Line1, input.Line2, input.Town, input.City, input.Postcode, input.Phone)
	if err != nil {
		return nil, err
	}

	addr.FullName = updated.FullName
	addr.Line1 = updated.Line1
	addr.Line2 = updated.Line2
	addr.Town = updated.Town
	addr.City = updated.City
	addr.Postcode = updated.Postcode
	addr.Phone = updated.Phone
	if input.DefaultShipping {
		addr.MarkDefaultShipping()
	}
	if input.DefaultBilling {
		addr.MarkDefaultBilling()
	}

	if err := s.addrRepo.Save(ctx, addr); err != nil {
		s.logger.Error("Failed to update address", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update address")
	}

	return addr, nil
}

// Delete removes an address owned by the user
func (s *AddressService) Delete(ctx context.Context, addressID, userID uuid.UUID) error {
	if _, err := s.findOwned(ctx, addressID, userID); err != nil {
		return err
	}
	return s.addrRepo.Delete(ctx, addressID)
}

// Defaults returns the user's default shipping and billing addresses.
// Either may be nil.
func (s *AddressService) Defaults(ctx context.Context, userID uuid.UUID) (shipping, billing *account.Address, err error) {
	shipping, err = s.addrRepo.FindDefaultShipping(ctx, userID)
	if err != nil && !shared.IsNotFound(err) {
		return nil, nil, err
	}
	billing, err = s.addrRepo.FindDefaultBilling(ctx, userID)
	if err != nil && !shared.IsNotFound(err) {
		return nil, nil, err
	}
	return shipping, billing, nil
}

func (s *AddressService) findOwned(ctx context.Context, addressID, userID uuid.UUID) (*account.Address, error) {
	addr, err := s.addrRepo.FindByID(ctx, addressID)
	if err != nil {
		return nil, shared.NewDomainError("ADDRESS_NOT_FOUND", "Address not found")
	}
	if addr.UserID != userID {
		return nil, shared.NewDomainError("FORBIDDEN", "Address belongs to another account")
	}
	return addr, nil
}
