package ordering

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/domain/ordering"
	"github.com/celuvia/backend/internal/domain/shared"
)

// CartService manages the per-user shopping cart. Prices are snapshotted
// into the cart line at add time.
type CartService struct {
	carts       ordering.CartStore
	productRepo catalog.ProductRepository
	storeRepo   catalog.StoreRepository
	logger      *zap.Logger
}

func NewCartService(
	carts ordering.CartStore,
	productRepo catalog.ProductRepository,
	storeRepo catalog.StoreRepository,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		carts:       carts,
		productRepo: productRepo,
		storeRepo:   storeRepo,
		logger:      logger,
	}
}

// Add puts a product variant in the cart. Quantities merge when the
// same variant is added again.
func (s *CartService) Add(ctx context.Context, input AddToCartInput) (*CartView, error) {
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	if !product.IsActive {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is no longer available")
	}

	store, err := s.storeRepo.FindByID(ctx, product.StoreID)
	if err != nil || !store.IsActive {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is no longer available")
	}

	unitPrice := product.PriceFor(input.Size)
	if unitPrice == nil {
		return nil, shared.NewDomainError("SIZE_UNAVAILABLE", "Product is not sold in this size")
	}

	cart, err := s.carts.Get(ctx, input.UserID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load cart")
	}

	line := ordering.CartLine{
		ProductID:   product.ID,
		ProductName: product.Name,
		StoreID:     product.StoreID,
		Size:        input.Size,
		Frame:       input.Frame,
		Quantity:    input.Quantity,
		UnitPrice:   *unitPrice,
	}
	if err := cart.Add(line); err != nil {
		return nil, err
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save cart")
	}

	return cartView(cart), nil
}

// UpdateLine changes a line's quantity. Zero or negative removes it.
func (s *CartService) UpdateLine(ctx context.Context, input UpdateCartLineInput) (*CartView, error) {
	cart, err := s.carts.Get(ctx, input.UserID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load cart")
	}

	if err := cart.Update(input.LineKey, input.Quantity); err != nil {
		return nil, err
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save cart")
	}
	return cartView(cart), nil
}

// Remove deletes a line from the cart
func (s *CartService) Remove(ctx context.Context, userID uuid.UUID, lineKey string) (*CartView, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load cart")
	}

	cart.Remove(lineKey)

	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save cart")
	}
	return cartView(cart), nil
}

// Get returns the user's cart
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load cart")
	}
	return cartView(cart), nil
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.Error("Failed to clear cart", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to clear cart")
	}
	return nil
}

// cartView renders a cart with lines in a stable order
func cartView(cart *ordering.Cart) *CartView {
	lines := make([]ordering.CartLine, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Key() < lines[j].Key()
	})

	return &CartView{
		Lines:     lines,
		ItemCount: cart.ItemCount(),
		Total:     cart.Total(),
	}
}
