package persistence

import (
	"context"
	"errors"

	"github.com/celuvia/backend/internal/domain/ordering"
	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements ordering.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID loads an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByCheckoutSessionID returns the order created for a checkout session
func (r *GormOrderRepository) FindByCheckoutSessionID(ctx context.Context, sessionID string) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("checkout_session_id = ?", sessionID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByUser returns a buyer's orders with items, newest first
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]ordering.Order, error) {
	var orders []ordering.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// FindForVendor returns orders containing at least one item from one of the
// vendor's stores. Each returned order carries only the vendor's own items.
func (r *GormOrderRepository) FindForVendor(ctx context.Context, vendorID uuid.UUID, storeID *uuid.UUID) ([]ordering.Order, error) {
	itemScope := func(tx *gorm.DB) *gorm.DB {
		scoped := tx.
			Joins("JOIN stores ON stores.id = order_items.store_id").
			Where("stores.owner_id = ?", vendorID)
		if storeID != nil {
			scoped = scoped.Where("order_items.store_id = ?", *storeID)
		}
		return scoped
	}

	var orderIDs []uuid.UUID
	if err := itemScope(r.db.WithContext(ctx).Model(&ordering.OrderItem{})).
		Distinct("order_items.order_id").
		Pluck("order_items.order_id", &orderIDs).Error; err != nil {
		return nil, err
	}
	if len(orderIDs) == 0 {
		return []ordering.Order{}, nil
	}

	var orders []ordering.Order
	if err := r.db.WithContext(ctx).
		Where("id IN ?", orderIDs).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}

	var items []ordering.OrderItem
	if err := itemScope(r.db.WithContext(ctx).Model(&ordering.OrderItem{})).
		Where("order_items.order_id IN ?", orderIDs).
		Select("order_items.*").
		Find(&items).Error; err != nil {
		return nil, err
	}

	byOrder := make(map[uuid.UUID][]ordering.OrderItem, len(orders))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return orders, nil
}

// Save persists the order and all of its items in one transaction
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		order.Items = nil
		if err := tx.Create(order).Error; err != nil {
			order.Items = items
			return err
		}
		order.Items = items
		if len(items) > 0 {
			return tx.Create(&order.Items).Error
		}
		return nil
	})
}

// UpdateStatus persists a status change
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, order *ordering.Order) error {
	return r.db.WithContext(ctx).Model(&ordering.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":  order.Status,
			"version": order.Version,
		}).Error
}

// HasPurchased reports whether the user has any order item for the product
func (r *GormOrderRepository) HasPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ordering.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}
