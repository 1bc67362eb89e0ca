package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/celuvia/backend/internal/domain/ordering"
	"github.com/celuvia/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

// RedisCartStore implements ordering.CartStore using Redis. Carts are
// stored as one JSON value per user so the payment webhook can clear the
// cart that produced the order without a browser session.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartStore creates a Redis-backed cart store
func NewRedisCartStore(cfg config.RedisConfig) (*RedisCartStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCartStore{client: client, ttl: cfg.CartTTL}, nil
}

// NewRedisCartStoreWithClient creates a cart store with an existing client
func NewRedisCartStoreWithClient(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

// Get returns the user's cart, or an empty cart when none is stored
func (s *RedisCartStore) Get(ctx context.Context, userID uuid.UUID) (*ordering.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ordering.NewCart(userID), nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var cart ordering.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	if cart.Lines == nil {
		cart.Lines = make(map[string]ordering.CartLine)
	}
	return &cart, nil
}

// Save persists the cart and refreshes its TTL
func (s *RedisCartStore) Save(ctx context.Context, cart *ordering.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(cart.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Clear removes the user's cart
func (s *RedisCartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisCartStore) Close() error {
	return s.client.Close()
}

func cartKey(userID uuid.UUID) string {
	return cartKeyPrefix + userID.String()
}

var _ ordering.CartStore = (*RedisCartStore)(nil)
