package cache

import (
	"github.com/celuvia/backend/internal/domain/ordering"
	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/celuvia/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory creates cart and idempotency stores based on configuration,
// falling back to in-memory implementations when Redis is unreachable
type Factory struct {
	redisConfig   config.RedisConfig
	logger        *zap.Logger
	allowFallback bool
}

// FactoryOption configures a Factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowFallback = allow
	}
}

// NewFactory creates a new store factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:   cfg,
		logger:        zap.NewNop(),
		allowFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateIdempotencyStore returns a Redis-backed idempotency store, or the
// in-memory store when Redis is unreachable and fallback is allowed
func (f *Factory) CreateIdempotencyStore() (shared.IdempotencyStore, error) {
	store, err := NewRedisIdempotencyStore(f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis idempotency store")
		return store, nil
	}
	if !f.allowFallback {
		return nil, err
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
		zap.Error(err))
	return NewInMemoryIdempotencyStore(), nil
}

// CreateCartStore returns a Redis-backed cart store, or the in-memory
// store when Redis is unreachable and fallback is allowed
func (f *Factory) CreateCartStore() (ordering.CartStore, error) {
	store, err := NewRedisCartStore(f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis cart store")
		return store, nil
	}
	if !f.allowFallback {
		return nil, err
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cart store",
		zap.Error(err))
	return NewInMemoryCartStore(), nil
}
