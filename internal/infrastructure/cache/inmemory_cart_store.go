package cache

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/celuvia/backend/internal/domain/ordering"
	"github.com/google/uuid"
)

// InMemoryCartStore implements ordering.CartStore with a map. Carts are
// stored as JSON copies so callers cannot mutate stored state through
// shared references.
type InMemoryCartStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID][]byte
}

// NewInMemoryCartStore creates an in-memory cart store
func NewInMemoryCartStore() *InMemoryCartStore {
	return &InMemoryCartStore{carts: make(map[uuid.UUID][]byte)}
}

// Get returns the user's cart, or an empty cart when none is stored
func (s *InMemoryCartStore) Get(ctx context.Context, userID uuid.UUID) (*ordering.Cart, error) {
	s.mu.RLock()
	data, exists := s.carts[userID]
	s.mu.RUnlock()

	if !exists {
		return ordering.NewCart(userID), nil
	}

	var cart ordering.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, err
	}
	if cart.Lines == nil {
		cart.Lines = make(map[string]ordering.CartLine)
	}
	return &cart, nil
}

// Save persists the cart
func (s *InMemoryCartStore) Save(ctx context.Context, cart *ordering.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.carts[cart.UserID] = data
	s.mu.Unlock()
	return nil
}

// Clear removes the user's cart
func (s *InMemoryCartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	delete(s.carts, userID)
	s.mu.Unlock()
	return nil
}

var _ ordering.CartStore = (*InMemoryCartStore)(nil)
