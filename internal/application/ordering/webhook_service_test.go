package ordering

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"

	"github.com/celuvia/backend/internal/domain/account"
	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/domain/ordering"
	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/celuvia/backend/internal/infrastructure/cache"
	"github.com/celuvia/backend/internal/infrastructure/payment"
)

type webhookFixture struct {
	verifier    *stubVerifier
	idempotency *cache.InMemoryIdempotencyStore
	carts       *cache.InMemoryCartStore
	orderRepo   *MockOrderRepository
	userRepo    *MockUserRepository
	addrRepo    *MockAddressRepository
	storeRepo   *MockStoreRepository
	mailer      *recordingMailer
	service     *WebhookService
}

func newWebhookFixture(verifier *stubVerifier) *webhookFixture {
	f := &webhookFixture{
		verifier:    verifier,
		idempotency: cache.NewInMemoryIdempotencyStore(),
		carts:       cache.NewInMemoryCartStore(),
		orderRepo:   new(MockOrderRepository),
		userRepo:    new(MockUserRepository),
		addrRepo:    new(MockAddressRepository),
		storeRepo:   new(MockStoreRepository),
		mailer:      new(recordingMailer),
	}
	f.service = NewWebhookService(
		f.verifier,
		f.idempotency,
		shared.DefaultIdempotencyConfig(),
		f.carts,
		f.orderRepo,
		f.userRepo,
		f.addrRepo,
		f.storeRepo,
		f.mailer,
		"gbp",
		zap.NewNop(),
	)
	return f
}

func completedCheckoutEvent(eventID, sessionID string, userID uuid.UUID) stripe.Event {
	raw := fmt.Sprintf(`{"id":%q,"client_reference_id":%q,"amount_total":2998,"currency":"gbp"}`,
		sessionID, userID)
	return stripe.Event{
		ID:   eventID,
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{Raw: json.RawMessage(raw)},
	}
}

func snapshotCheckoutEvent(t *testing.T, eventID, sessionID string, userID uuid.UUID, amountTotal int64, metadata map[string]string) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"id":                  sessionID,
		"client_reference_id": userID.String(),
		"amount_total":        amountTotal,
		"currency":            "gbp",
		"metadata":            metadata,
	})
	require.NoError(t, err)
	return stripe.Event{
		ID:   eventID,
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestWebhookService_HandleWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the order and notifies buyer and vendors", func(t *testing.T) {
		buyer, err := account.NewUser("buyer@example.com", "Ada", "Lovelace", "Password1!")
		require.NoError(t, err)
		storeA, err := catalog.NewStore(uuid.New(), "Print Haven", "", "haven@example.com", "0123456789")
		require.NoError(t, err)
		storeB, err := catalog.NewStore(uuid.New(), "Frame Works", "", "frames@example.com", "0123456789")
		require.NoError(t, err)

		event := completedCheckoutEvent("evt_1", "cs_test_1", buyer.ID)
		f := newWebhookFixture(&stubVerifier{event: event})

		lineA := cartLine("Sunset Print", catalog.SizeMedium, catalog.FrameBlack, 1, "24.99")
		lineA.StoreID = storeA.ID
		lineB := cartLine("City Map", catalog.SizeSmall, catalog.FrameOak, 2, "9.99")
		lineB.StoreID = storeB.ID
		seedCart(t, f.carts, buyer.ID, lineA, lineB)

		f.orderRepo.On("FindByCheckoutSessionID", ctx, "cs_test_1").Return(nil, shared.ErrNotFound)
		var saved *ordering.Order
		f.orderRepo.On("Save", ctx, mock.AnythingOfType("*ordering.Order")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*ordering.Order) }).
			Return(nil)
		f.userRepo.On("FindByID", ctx, buyer.ID).Return(buyer, nil)
		f.addrRepo.On("FindDefaultShipping", ctx, buyer.ID).Return(nil, shared.ErrNotFound)
		f.addrRepo.On("FindDefaultBilling", ctx, buyer.ID).Return(nil, shared.ErrNotFound)
		f.storeRepo.On("FindByID", ctx, storeA.ID).Return(storeA, nil)
		f.storeRepo.On("FindByID", ctx, storeB.ID).Return(storeB, nil)

		result, err := f.service.HandleWebhook(ctx, []byte("{}"), "sig")

		require.NoError(t, err)
		assert.True(t, result.Processed)
		assert.Equal(t, "evt_1", result.EventID)

		require.NotNil(t, saved)
		assert.Equal(t, buyer.ID, saved.UserID)
		assert.Equal(t, "cs_test_1", saved.CheckoutSessionID)
		require.Len(t, saved.Items, 2)
		assert.True(t, saved.Total.Equal(decimal.RequireFromString("44.97")))

		cart, err := f.carts.Get(ctx, buyer.ID)
		require.NoError(t, err)
		assert.True(t, cart.IsEmpty())

		require.Len(t, f.mailer.To, 3)
		assert.Contains(t, f.mailer.To, "buyer@example.com")
		assert.Contains(t, f.mailer.To, "haven@example.com")
		assert.Contains(t, f.mailer.To, "frames@example.com")
	})

	t.Run("builds the order from the session snapshot, not the live cart", func(t *testing.T) {
		buyer, err := account.NewUser("buyer@example.com", "Ada", "Lovelace", "Password1!")
		require.NoError(t, err)
		store, err := catalog.NewStore(uuid.New(), "Print Haven", "", "haven@example.com", "0123456789")
		require.NoError(t, err)

		paidLine := cartLine("Sunset Print", catalog.SizeMedium, catalog.FrameBlack, 1, "24.99")
		paidLine.StoreID = store.ID
		metadata, err := payment.EncodeSessionMetadata([]ordering.CartLine{paidLine}, nil, nil)
		require.NoError(t, err)

		event := snapshotCheckoutEvent(t, "evt_snap", "cs_test_snap", buyer.ID, 2499, metadata)
		f := newWebhookFixture(&stubVerifier{event: event})

		// The buyer added a second line while on the payment page
		added := cartLine("City Map", catalog.SizeSmall, catalog.FrameOak, 2, "9.99")
		seedCart(t, f.carts, buyer.ID, paidLine, added)

		f.orderRepo.On("FindByCheckoutSessionID", ctx, "cs_test_snap").Return(nil, shared.ErrNotFound)
		var saved *ordering.Order
		f.orderRepo.On("Save", ctx, mock.AnythingOfType("*ordering.Order")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*ordering.Order) }).
			Return(nil)
		f.userRepo.On("FindByID", ctx, buyer.ID).Return(buyer, nil)
		f.addrRepo.On("FindDefaultShipping", ctx, buyer.ID).Return(nil, shared.ErrNotFound)
		f.addrRepo.On("FindDefaultBilling", ctx, buyer.ID).Return(nil, shared.ErrNotFound)
		f.storeRepo.On("FindByID", ctx, store.ID).Return(store, nil)

		result, err := f.service.HandleWebhook(ctx, []byte("{}"), "sig")

		require.NoError(t, err)
		assert.True(t, result.Processed)
		require.NotNil(t, saved)
		require.Len(t, saved.Items, 1)
		assert.Equal(t, paidLine.ProductID, saved.Items[0].ProductID)
		assert.True(t, saved.Total.Equal(decimal.RequireFromString("24.99")))
	})

	t.Run("upserts checkout addresses onto the order", func(t *testing.T) {
		buyer, err := account.NewUser("buyer@example.com", "Ada", "Lovelace", "Password1!")
		require.NoError(t, err)
		store, err := catalog.NewStore(uuid.New(), "Print Haven", "", "haven@example.com", "0123456789")
		require.NoError(t, err)

		line := cartLine("Sunset Print", catalog.SizeMedium, catalog.FrameBlack, 1, "24.99")
		line.StoreID = store.ID
		shipping := &payment.CheckoutAddress{FullName: "Ada Lovelace", Line1: "1 High St", City: "London", Postcode: "N1 1AA"}
		billing := &payment.CheckoutAddress{FullName: "Ada Lovelace", Line1: "2 Side Rd", City: "London", Postcode: "N2 2BB"}
		metadata, err := payment.EncodeSessionMetadata([]ordering.CartLine{line}, shipping, billing)
		require.NoError(t, err)

		event := snapshotCheckoutEvent(t, "evt_addr", "cs_test_addr", buyer.ID, 2499, metadata)
		f := newWebhookFixture(&stubVerifier{event: event})

		f.orderRepo.On("FindByCheckoutSessionID", ctx, "cs_test_addr").Return(nil, shared.ErrNotFound)
		var saved *ordering.Order
		f.orderRepo.On("Save", ctx, mock.AnythingOfType("*ordering.Order")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*ordering.Order) }).
			Return(nil)
		f.addrRepo.On("FindByUser", ctx, buyer.ID).Return([]account.Address{}, nil)
		var savedAddresses []*account.Address
		f.addrRepo.On("Save", ctx, mock.AnythingOfType("*account.Address")).
			Run(func(args mock.Arguments) { savedAddresses = append(savedAddresses, args.Get(1).(*account.Address)) }).
			Return(nil)
		f.userRepo.On("FindByID", ctx, buyer.ID).Return(buyer, nil)
		f.storeRepo.On("FindByID", ctx, store.ID).Return(store, nil)

		result, err := f.service.HandleWebhook(ctx, []byte("{}"), "sig")

		require.NoError(t, err)
		assert.True(t, result.Processed)
		require.Len(t, savedAddresses, 2)
		assert.True(t, savedAddresses[0].IsShipping)
		assert.Equal(t, "1 High St", savedAddresses[0].Line1)
		assert.True(t, savedAddresses[1].IsBilling)
		assert.Equal(t, "2 Side Rd", savedAddresses[1].Line1)

		require.NotNil(t, saved)
		require.NotNil(t, saved.ShippingAddressID)
		require.NotNil(t, saved.BillingAddressID)
		assert.Equal(t, savedAddresses[0].ID, *saved.ShippingAddressID)
		assert.Equal(t, savedAddresses[1].ID, *saved.BillingAddressID)
		f.addrRepo.AssertNotCalled(t, "FindDefaultShipping", mock.Anything, mock.Anything)
		f.addrRepo.AssertNotCalled(t, "FindDefaultBilling", mock.Anything, mock.Anything)
	})

	t.Run("short-circuits a duplicate delivery", func(t *testing.T) {
		buyer, err := account.NewUser("buyer@example.com", "Ada", "Lovelace", "Password1!")
		require.NoError(t, err)
		store, err := catalog.NewStore(uuid.New(), "Print Haven", "", "haven@example.com", "0123456789")
		require.NoError(t, err)

		event := completedCheckoutEvent("evt_2", "cs_test_2", buyer.ID)
		f := newWebhookFixture(&stubVerifier{event: event})

		line := cartLine("Sunset Print", catalog.SizeMedium, catalog.FrameBlack, 1, "24.99")
		line.StoreID = store.ID
		seedCart(t, f.carts, buyer.ID, line)

		f.orderRepo.On("FindByCheckoutSessionID", ctx, "cs_test_2").Return(nil, shared.ErrNotFound)
		f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.userRepo.On("FindByID", ctx, buyer.ID).Return(buyer, nil)
		f.addrRepo.On("FindDefaultShipping", ctx, buyer.ID).Return(nil, shared.ErrNotFound)
		f.addrRepo.On("FindDefaultBilling", ctx, buyer.ID).Return(nil, shared.ErrNotFound)
		f.storeRepo.On("FindByID", ctx, store.ID).Return(store, nil)

		first, err := f.service.HandleWebhook(ctx, []byte("{}"), "sig")
		require.NoError(t, err)
		require.True(t, first.Processed)

		second, err := f.service.HandleWebhook(ctx, []byte("{}"), "sig")
		require.NoError(t, err)
		assert.False(t, second.Processed)
		assert.Equal(t, "duplicate delivery", second.Message)
		f.orderRepo.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("acknowledges when the session already has an order", func(t *testing.T) {
		buyer, err := account.NewUser("buyer@example.com", "Ada", "Lovelace", "Password1!")
		require.NoError(t, err)
		existing, err := ordering.NewOrder(buyer.ID, "cs_test_3")
		require.NoError(t, err)

		event := completedCheckoutEvent("evt_3", "cs_test_3", buyer.ID)
		f := newWebhookFixture(&stubVerifier{event: event})
		f.orderRepo.On("FindByCheckoutSessionID", ctx, "cs_test_3").Return(existing, nil)

		result, err := f.service.HandleWebhook(ctx, []byte("{}"), "sig")

		require.NoError(t, err)
		assert.False(t, result.Processed)
		assert.Equal(t, "order already created for session", result.Message)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("ignores unrelated event types", func(t *testing.T) {
		f := newWebhookFixture(&stubVerifier{event: stripe.Event{
			ID:   "evt_4",
			Type: "invoice.paid",
			Data: &stripe.EventData{Raw: json.RawMessage(`{}`)},
		}})

		result, err := f.service.HandleWebhook(ctx, []byte("{}"), "sig")

		require.NoError(t, err)
		assert.False(t, result.Processed)
		assert.Equal(t, "event type ignored", result.Message)
	})

	t.Run("returns the verification error for bad signatures", func(t *testing.T) {
		f := newWebhookFixture(&stubVerifier{err: errors.New("signature mismatch")})

		result, err := f.service.HandleWebhook(ctx, []byte("{}"), "bad")

		require.Error(t, err)
		assert.Nil(t, result)
	})

	t.Run("acknowledges when the cart is already gone", func(t *testing.T) {
		buyer, err := account.NewUser("buyer@example.com", "Ada", "Lovelace", "Password1!")
		require.NoError(t, err)

		event := completedCheckoutEvent("evt_5", "cs_test_5", buyer.ID)
		f := newWebhookFixture(&stubVerifier{event: event})
		f.orderRepo.On("FindByCheckoutSessionID", ctx, "cs_test_5").Return(nil, shared.ErrNotFound)

		result, err := f.service.HandleWebhook(ctx, []byte("{}"), "sig")

		require.NoError(t, err)
		assert.False(t, result.Processed)
		assert.Contains(t, result.Message, "cart is empty")
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
