package ordering

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"

	"github.com/celuvia/backend/internal/domain/account"
	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/domain/ordering"
	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/celuvia/backend/internal/infrastructure/mail"
	"github.com/celuvia/backend/internal/infrastructure/payment"
)

// WebhookVerifier validates a webhook delivery and parses the event
type WebhookVerifier interface {
	ConstructEvent(payload []byte, signature string) (stripe.Event, error)
}

// WebhookService turns completed checkout events into orders.
// Signature failures are returned as errors so the handler can reply
// 400 and make Stripe retry; all later failures are absorbed into the
// result so the delivery is acknowledged.
type WebhookService struct {
	verifier    WebhookVerifier
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
	carts       ordering.CartStore
	orderRepo   ordering.OrderRepository
	userRepo    account.UserRepository
	addrRepo    account.AddressRepository
	storeRepo   catalog.StoreRepository
	mailer      mail.Mailer
	currency    string
	logger      *zap.Logger
}

func NewWebhookService(
	verifier WebhookVerifier,
	idempotency shared.IdempotencyStore,
	idemConfig shared.IdempotencyConfig,
	carts ordering.CartStore,
	orderRepo ordering.OrderRepository,
	userRepo account.UserRepository,
	addrRepo account.AddressRepository,
	storeRepo catalog.StoreRepository,
	mailer mail.Mailer,
	currency string,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		verifier:    verifier,
		idempotency: idempotency,
		idemConfig:  idemConfig,
		carts:       carts,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		addrRepo:    addrRepo,
		storeRepo:   storeRepo,
		mailer:      mailer,
		currency:    currency,
		logger:      logger,
	}
}

// HandleWebhook verifies and processes one webhook delivery
func (s *WebhookService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := s.verifier.ConstructEvent(payload, signature)
	if err != nil {
		s.logger.Warn("Webhook signature verification failed", zap.Error(err))
		return nil, err
	}

	result := &WebhookResult{EventID: event.ID, EventType: string(event.Type)}

	checkout, handled, err := payment.ParseCompletedCheckout(event)
	if !handled {
		result.Message = "event type ignored"
		return result, nil
	}
	if err != nil {
		s.logger.Error("Failed to parse checkout event",
			zap.String("event_id", event.ID), zap.Error(err))
		result.Message = "malformed checkout event"
		return result, nil
	}

	if s.idemConfig.Enabled {
		first, err := s.idempotency.MarkProcessed(ctx, checkout.EventID, s.idemConfig.TTL)
		if err != nil {
			// Fall through to the database dedup on session ID
			s.logger.Warn("Idempotency store unavailable", zap.Error(err))
		} else if !first {
			result.Message = "duplicate delivery"
			return result, nil
		}
	}

	if _, err := s.orderRepo.FindByCheckoutSessionID(ctx, checkout.SessionID); err == nil {
		result.Message = "order already created for session"
		return result, nil
	} else if !shared.IsNotFound(err) {
		s.logger.Error("Failed to check for existing order", zap.Error(err))
		result.Message = "failed to check for existing order"
		return result, nil
	}

	order, err := s.createOrder(ctx, checkout)
	if err != nil {
		s.logger.Error("Failed to create order from checkout",
			zap.String("event_id", checkout.EventID),
			zap.String("session_id", checkout.SessionID),
			zap.Error(err))
		result.Message = err.Error()
		return result, nil
	}

	if err := s.carts.Clear(ctx, checkout.UserID); err != nil {
		s.logger.Warn("Failed to clear cart after order",
			zap.String("user_id", checkout.UserID.String()), zap.Error(err))
	}

	s.notify(ctx, order, checkout.UserID)

	s.logger.Info("Order created from checkout",
		zap.String("order_id", order.ID.String()),
		zap.String("session_id", checkout.SessionID))

	result.Processed = true
	result.Message = fmt.Sprintf("order %s created", order.ID)
	return result, nil
}

func (s *WebhookService) createOrder(ctx context.Context, checkout *payment.CompletedCheckout) (*ordering.Order, error) {
	lines := checkout.Lines
	if len(lines) == 0 {
		// Sessions created without a metadata snapshot fall back to
		// the live cart
		cart, err := s.carts.Get(ctx, checkout.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load cart: %w", err)
		}
		if cart.IsEmpty() {
			return nil, fmt.Errorf("cart is empty for user %s", checkout.UserID)
		}
		lines = cartView(cart).Lines
	}

	order, err := ordering.NewOrder(checkout.UserID, checkout.SessionID)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if err := order.AddItem(line); err != nil {
			return nil, err
		}
	}

	s.reconcileAmount(checkout, order)
	s.attachAddresses(ctx, order, checkout)

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	return order, nil
}

// reconcileAmount compares the provider-reported charge against the
// recomputed order total. The snapshot total stays authoritative;
// mismatches are logged for manual reconciliation.
func (s *WebhookService) reconcileAmount(checkout *payment.CompletedCheckout, order *ordering.Order) {
	computed := toMinorUnits(order.Total)
	if checkout.AmountTotal == computed {
		return
	}
	s.logger.Warn("Charged amount does not match order total",
		zap.String("session_id", checkout.SessionID),
		zap.Int64("charged_amount", checkout.AmountTotal),
		zap.Int64("order_amount", computed))
}

// attachAddresses upserts the addresses captured at checkout, falling
// back to the buyer's stored defaults. Orders without any address
// still go through.
func (s *WebhookService) attachAddresses(ctx context.Context, order *ordering.Order, checkout *payment.CompletedCheckout) {
	shippingID := s.upsertAddress(ctx, checkout.UserID, checkout.ShippingAddress, true)
	if shippingID == nil {
		shippingID = s.defaultAddressID(ctx, checkout.UserID, true)
	}
	billingID := s.upsertAddress(ctx, checkout.UserID, checkout.BillingAddress, false)
	if billingID == nil {
		billingID = s.defaultAddressID(ctx, checkout.UserID, false)
	}
	order.SetAddresses(shippingID, billingID)
}

// upsertAddress reuses an existing matching address rather than writing
// a duplicate row on every order.
func (s *WebhookService) upsertAddress(ctx context.Context, userID uuid.UUID, captured *payment.CheckoutAddress, shipping bool) *uuid.UUID {
	if captured == nil {
		return nil
	}

	var address *account.Address
	existing, err := s.addrRepo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load address book", zap.Error(err))
	}
	for i := range existing {
		if addressMatches(&existing[i], captured) {
			address = &existing[i]
			break
		}
	}
	if address == nil {
		address, err = account.NewAddress(userID, captured.FullName, captured.Line1,
			captured.Line2, captured.Town, captured.City, captured.Postcode, captured.Phone)
		if err != nil {
			s.logger.Warn("Checkout carried an invalid address", zap.Error(err))
			return nil
		}
	}

	if shipping {
		address.MarkDefaultShipping()
	} else {
		address.MarkDefaultBilling()
	}
	if err := s.addrRepo.Save(ctx, address); err != nil {
		s.logger.Warn("Failed to save checkout address", zap.Error(err))
		return nil
	}
	return &address.ID
}

func addressMatches(address *account.Address, captured *payment.CheckoutAddress) bool {
	return strings.EqualFold(strings.TrimSpace(address.Line1), strings.TrimSpace(captured.Line1)) &&
		strings.EqualFold(strings.TrimSpace(address.Postcode), strings.TrimSpace(captured.Postcode)) &&
		strings.EqualFold(strings.TrimSpace(address.FullName), strings.TrimSpace(captured.FullName))
}

func (s *WebhookService) defaultAddressID(ctx context.Context, userID uuid.UUID, shipping bool) *uuid.UUID {
	var (
		address *account.Address
		err     error
	)
	if shipping {
		address, err = s.addrRepo.FindDefaultShipping(ctx, userID)
	} else {
		address, err = s.addrRepo.FindDefaultBilling(ctx, userID)
	}
	if err != nil {
		if !shared.IsNotFound(err) {
			s.logger.Warn("Failed to load default address", zap.Error(err))
		}
		return nil
	}
	return &address.ID
}

// notify emails the buyer confirmation and one sale notice per store.
// Mail failures never fail the webhook.
func (s *WebhookService) notify(ctx context.Context, order *ordering.Order, userID uuid.UUID) {
	orderNumber := orderNumber(order.ID)

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load buyer for confirmation email", zap.Error(err))
	} else {
		lines := make([]mail.OrderLine, len(order.Items))
		for i, item := range order.Items {
			lines[i] = mail.OrderLine{
				Name:      item.ProductName,
				Size:      item.Size.String(),
				Frame:     item.Frame.String(),
				Quantity:  item.Quantity,
				LineTotal: s.formatAmount(item.Subtotal()),
			}
		}
		body, err := mail.RenderOrderConfirmation(mail.OrderConfirmationData{
			Name:        user.FirstName,
			OrderNumber: orderNumber,
			Lines:       lines,
			Total:       s.formatAmount(order.Total),
		})
		if err != nil {
			s.logger.Warn("Failed to render confirmation email", zap.Error(err))
		} else if err := s.mailer.Send(user.Email, "Your order "+orderNumber, body); err != nil {
			s.logger.Warn("Failed to send confirmation email", zap.Error(err))
		}
	}

	for storeID, items := range itemsByStore(order.Items) {
		store, err := s.storeRepo.FindByID(ctx, storeID)
		if err != nil {
			s.logger.Warn("Failed to load store for sale notice",
				zap.String("store_id", storeID.String()), zap.Error(err))
			continue
		}

		lines := make([]mail.OrderLine, len(items))
		for i, item := range items {
			lines[i] = mail.OrderLine{
				Name:     item.ProductName,
				Size:     item.Size.String(),
				Frame:    item.Frame.String(),
				Quantity: item.Quantity,
			}
		}
		body, err := mail.RenderVendorSale(mail.VendorSaleData{
			StoreName:   store.Name,
			OrderNumber: orderNumber,
			Lines:       lines,
		})
		if err != nil {
			s.logger.Warn("Failed to render sale notice", zap.Error(err))
			continue
		}
		if err := s.mailer.Send(store.Email, "New sale in "+store.Name, body); err != nil {
			s.logger.Warn("Failed to send sale notice",
				zap.String("store_id", storeID.String()), zap.Error(err))
		}
	}
}

func (s *WebhookService) formatAmount(amount decimal.Decimal) string {
	symbol := map[string]string{"gbp": "£", "usd": "$", "eur": "€"}[strings.ToLower(s.currency)]
	if symbol == "" {
		return fmt.Sprintf("%s %s", strings.ToUpper(s.currency), amount.StringFixed(2))
	}
	return symbol + amount.StringFixed(2)
}

func itemsByStore(items []ordering.OrderItem) map[uuid.UUID][]ordering.OrderItem {
	grouped := make(map[uuid.UUID][]ordering.OrderItem)
	for _, item := range items {
		grouped[item.StoreID] = append(grouped[item.StoreID], item)
	}
	return grouped
}

// orderNumber is the short reference shown to customers
func orderNumber(id uuid.UUID) string {
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
