package ordering

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines persistence for orders and their items
type OrderRepository interface {
	// FindByID loads an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByCheckoutSessionID returns the order created for a checkout
	// session, or shared.ErrNotFound when none exists
	FindByCheckoutSessionID(ctx context.Context, sessionID string) (*Order, error)
	// FindByUser returns a buyer's orders with items, newest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)
	// FindForVendor returns orders containing at least one item from one of
	// the vendor's stores, restricted to storeID when non-nil. Each returned
	// order carries only the vendor's own items.
	FindForVendor(ctx context.Context, vendorID uuid.UUID, storeID *uuid.UUID) ([]Order, error)
	// Save persists the order and all of its items in one transaction
	Save(ctx context.Context, order *Order) error
	// UpdateStatus persists a status change
	UpdateStatus(ctx context.Context, order *Order) error
	// HasPurchased reports whether the user has any order item for the product
	HasPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}
