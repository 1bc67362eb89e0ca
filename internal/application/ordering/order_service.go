package ordering

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/domain/ordering"
	"github.com/celuvia/backend/internal/domain/shared"
)

// OrderService serves order history for buyers and fulfilment views for
// vendors.
type OrderService struct {
	orderRepo ordering.OrderRepository
	storeRepo catalog.StoreRepository
	logger    *zap.Logger
}

func NewOrderService(orderRepo ordering.OrderRepository, storeRepo catalog.StoreRepository, logger *zap.Logger) *OrderService {
	return &OrderService{orderRepo: orderRepo, storeRepo: storeRepo, logger: logger}
}

// ListMine returns the buyer's orders, newest first
func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID) ([]OrderView, error) {
	orders, err := s.orderRepo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orders")
	}
	return orderViews(orders), nil
}

// GetMine returns one of the buyer's orders
func (s *OrderService) GetMine(ctx context.Context, orderID, userID uuid.UUID) (*OrderView, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}
	if order.UserID != userID {
		return nil, shared.NewDomainError("FORBIDDEN", "Order belongs to another account")
	}

	view := orderView(*order)
	return &view, nil
}

// ListForVendor returns orders containing the vendor's items, showing
// only those items. A store ID narrows the view to one store.
func (s *OrderService) ListForVendor(ctx context.Context, vendorID uuid.UUID, storeID *uuid.UUID) ([]OrderView, error) {
	if storeID != nil {
		store, err := s.storeRepo.FindByID(ctx, *storeID)
		if err != nil {
			return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
		}
		if !store.IsOwnedBy(vendorID) {
			return nil, shared.NewDomainError("FORBIDDEN", "Store belongs to another vendor")
		}
	}

	orders, err := s.orderRepo.FindForVendor(ctx, vendorID, storeID)
	if err != nil {
		s.logger.Error("Failed to list vendor orders", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orders")
	}
	return orderViews(orders), nil
}

// UpdateStatus lets a vendor move an order containing their items to a
// new status.
func (s *OrderService) UpdateStatus(ctx context.Context, input UpdateOrderStatusInput) (*OrderView, error) {
	order, err := s.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}

	owned, err := s.vendorInOrder(ctx, order, input.VendorID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, shared.NewDomainError("FORBIDDEN", "Order contains no items from your stores")
	}

	if err := order.UpdateStatus(input.Status); err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(ctx, order); err != nil {
		s.logger.Error("Failed to update order status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update order")
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("status", order.Status.String()))

	view := orderView(*order)
	return &view, nil
}

func (s *OrderService) vendorInOrder(ctx context.Context, order *ordering.Order, vendorID uuid.UUID) (bool, error) {
	stores, err := s.storeRepo.FindByOwner(ctx, vendorID)
	if err != nil {
		s.logger.Error("Failed to load vendor stores", zap.Error(err))
		return false, shared.NewDomainError("INTERNAL_ERROR", "Failed to load stores")
	}
	for _, store := range stores {
		if order.ContainsStore(store.ID) {
			return true, nil
		}
	}
	return false, nil
}
