package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/domain/shared"
)

// StoreService manages vendor stores
type StoreService struct {
	storeRepo catalog.StoreRepository
	logger    *zap.Logger
}

func NewStoreService(storeRepo catalog.StoreRepository, logger *zap.Logger) *StoreService {
	return &StoreService{storeRepo: storeRepo, logger: logger}
}

// Create opens a new store for the vendor
func (s *StoreService) Create(ctx context.Context, input CreateStoreInput) (*catalog.Store, error) {
	store, err := catalog.NewStore(input.OwnerID, input.Name, input.Description, input.Email, input.Phone)
	if err != nil {
		return nil, err
	}

	if err := s.storeRepo.Save(ctx, store); err != nil {
		s.logger.Error("Failed to save store", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create store")
	}

	s.logger.Info("Store created",
		zap.String("store_id", store.ID.String()),
		zap.String("owner_id", input.OwnerID.String()))
	return store, nil
}

// Update edits a store owned by the vendor
func (s *StoreService) Update(ctx context.Context, input UpdateStoreInput) (*catalog.Store, error) {
	store, err := s.FindOwned(ctx, input.StoreID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if err := store.Update(input.Name, input.Description, input.Email, input.Phone); err != nil {
		return nil, err
	}

	if err := s.storeRepo.Update(ctx, store); err != nil {
		s.logger.Error("Failed to update store", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update store")
	}
	return store, nil
}

// Close takes the store off the storefront without deleting it
func (s *StoreService) Close(ctx context.Context, storeID, ownerID uuid.UUID) error {
	return s.setActive(ctx, storeID, ownerID, false)
}

// Reopen makes a closed store public again
func (s *StoreService) Reopen(ctx context.Context, storeID, ownerID uuid.UUID) error {
	return s.setActive(ctx, storeID, ownerID, true)
}

func (s *StoreService) setActive(ctx context.Context, storeID, ownerID uuid.UUID, active bool) error {
	store, err := s.FindOwned(ctx, storeID, ownerID)
	if err != nil {
		return err
	}

	if active {
		store.Reopen()
	} else {
		store.Close()
	}

	if err := s.storeRepo.Update(ctx, store); err != nil {
		s.logger.Error("Failed to update store state", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update store")
	}

	s.logger.Info("Store state changed",
		zap.String("store_id", storeID.String()),
		zap.Bool("active", active))
	return nil
}

// Get returns a store by ID
func (s *StoreService) Get(ctx context.Context, storeID uuid.UUID) (*catalog.Store, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
	}
	return store, nil
}

// ListPublic returns active stores, optionally filtered by search term
func (s *StoreService) ListPublic(ctx context.Context, filter shared.Filter) ([]catalog.Store, int64, error) {
	return s.storeRepo.FindActive(ctx, filter)
}

// ListOwned returns all of the vendor's stores including closed ones
func (s *StoreService) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]catalog.Store, error) {
	return s.storeRepo.FindByOwner(ctx, ownerID)
}

// FindOwned returns the store if the user owns it
func (s *StoreService) FindOwned(ctx context.Context, storeID, ownerID uuid.UUID) (*catalog.Store, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
	}
	if !store.IsOwnedBy(ownerID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Store belongs to another vendor")
	}
	return store, nil
}
