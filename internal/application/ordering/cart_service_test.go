package ordering

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/celuvia/backend/internal/infrastructure/cache"
)

func price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func newSizedProduct(t *testing.T, storeID uuid.UUID, name string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(storeID, name, "")
	require.NoError(t, err)
	size, err := catalog.NewSize(product.ID, price("9.99"), price("14.99"), nil)
	require.NoError(t, err)
	product.Sizes = size
	return product
}

func newActiveStore(t *testing.T, ownerID uuid.UUID) *catalog.Store {
	t.Helper()
	store, err := catalog.NewStore(ownerID, "Print Haven", "", "shop@example.com", "0123456789")
	require.NoError(t, err)
	return store
}

type cartFixture struct {
	carts       *cache.InMemoryCartStore
	productRepo *MockProductRepository
	storeRepo   *MockStoreRepository
	service     *CartService
}

func newCartFixture() *cartFixture {
	f := &cartFixture{
		carts:       cache.NewInMemoryCartStore(),
		productRepo: new(MockProductRepository),
		storeRepo:   new(MockStoreRepository),
	}
	f.service = NewCartService(f.carts, f.productRepo, f.storeRepo, zap.NewNop())
	return f
}

func TestCartService_Add(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := newActiveStore(t, uuid.New())

	t.Run("snapshots the size price into the line", func(t *testing.T) {
		f := newCartFixture()
		product := newSizedProduct(t, store.ID, "Sunset Print")
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.storeRepo.On("FindByID", ctx, store.ID).Return(store, nil)

		view, err := f.service.Add(ctx, AddToCartInput{
			UserID:    userID,
			ProductID: product.ID,
			Size:      catalog.SizeMedium,
			Frame:     catalog.FrameBlack,
			Quantity:  2,
		})

		require.NoError(t, err)
		require.Len(t, view.Lines, 1)
		assert.True(t, view.Lines[0].UnitPrice.Equal(decimal.RequireFromString("14.99")))
		assert.True(t, view.Total.Equal(decimal.RequireFromString("29.98")))
	})

	t.Run("merges quantities for the same variant", func(t *testing.T) {
		f := newCartFixture()
		product := newSizedProduct(t, store.ID, "Sunset Print")
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.storeRepo.On("FindByID", ctx, store.ID).Return(store, nil)

		input := AddToCartInput{
			UserID:    userID,
			ProductID: product.ID,
			Size:      catalog.SizeSmall,
			Frame:     catalog.FrameOak,
			Quantity:  1,
		}
		_, err := f.service.Add(ctx, input)
		require.NoError(t, err)
		view, err := f.service.Add(ctx, input)
		require.NoError(t, err)

		require.Len(t, view.Lines, 1)
		assert.Equal(t, 2, view.Lines[0].Quantity)
	})

	t.Run("rejects a size the product is not sold in", func(t *testing.T) {
		f := newCartFixture()
		product := newSizedProduct(t, store.ID, "Sunset Print")
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.storeRepo.On("FindByID", ctx, store.ID).Return(store, nil)

		_, err := f.service.Add(ctx, AddToCartInput{
			UserID:    userID,
			ProductID: product.ID,
			Size:      catalog.SizeLarge,
			Frame:     catalog.FrameBlack,
			Quantity:  1,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SIZE_UNAVAILABLE", domainErr.Code)
	})

	t.Run("rejects products from closed stores", func(t *testing.T) {
		f := newCartFixture()
		closed := newActiveStore(t, uuid.New())
		closed.Close()
		product := newSizedProduct(t, closed.ID, "Sunset Print")
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.storeRepo.On("FindByID", ctx, closed.ID).Return(closed, nil)

		_, err := f.service.Add(ctx, AddToCartInput{
			UserID:    userID,
			ProductID: product.ID,
			Size:      catalog.SizeSmall,
			Frame:     catalog.FrameBlack,
			Quantity:  1,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRODUCT_UNAVAILABLE", domainErr.Code)
	})

	t.Run("rejects archived products", func(t *testing.T) {
		f := newCartFixture()
		product := newSizedProduct(t, store.ID, "Sunset Print")
		product.Archive()
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := f.service.Add(ctx, AddToCartInput{
			UserID:    userID,
			ProductID: product.ID,
			Size:      catalog.SizeSmall,
			Frame:     catalog.FrameBlack,
			Quantity:  1,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRODUCT_UNAVAILABLE", domainErr.Code)
	})
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := newActiveStore(t, uuid.New())

	f := newCartFixture()
	product := newSizedProduct(t, store.ID, "Sunset Print")
	f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	f.storeRepo.On("FindByID", ctx, store.ID).Return(store, nil)

	view, err := f.service.Add(ctx, AddToCartInput{
		UserID:    userID,
		ProductID: product.ID,
		Size:      catalog.SizeSmall,
		Frame:     catalog.FrameBlack,
		Quantity:  1,
	})
	require.NoError(t, err)
	key := view.Lines[0].Key()

	view, err = f.service.UpdateLine(ctx, UpdateCartLineInput{UserID: userID, LineKey: key, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, view.Lines[0].Quantity)

	_, err = f.service.UpdateLine(ctx, UpdateCartLineInput{UserID: userID, LineKey: "missing", Quantity: 1})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "LINE_NOT_FOUND", domainErr.Code)

	view, err = f.service.Remove(ctx, userID, key)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}
