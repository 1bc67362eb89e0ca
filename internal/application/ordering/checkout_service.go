package ordering

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/celuvia/backend/internal/domain/account"
	"github.com/celuvia/backend/internal/domain/ordering"
	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/celuvia/backend/internal/infrastructure/payment"
)

// PaymentGateway creates hosted checkout sessions
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, input payment.CheckoutSessionInput) (*payment.CheckoutSession, error)
}

// CheckoutConfig holds the storefront-facing checkout settings
type CheckoutConfig struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

// CheckoutService turns a cart into a hosted payment session. The order
// itself is only created when the payment webhook confirms completion.
type CheckoutService struct {
	carts    ordering.CartStore
	userRepo account.UserRepository
	gateway  PaymentGateway
	config   CheckoutConfig
	logger   *zap.Logger
}

func NewCheckoutService(
	carts ordering.CartStore,
	userRepo account.UserRepository,
	gateway PaymentGateway,
	config CheckoutConfig,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		userRepo: userRepo,
		gateway:  gateway,
		config:   config,
		logger:   logger,
	}
}

// CreateSession creates a hosted checkout session for the user's cart.
// The cart and any addresses are frozen into session metadata so the
// webhook materializes exactly what was paid for.
func (s *CheckoutService) CreateSession(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	cart, err := s.carts.Get(ctx, input.UserID)
	if err != nil {
		s.logger.Error("Failed to load cart for checkout", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load cart")
	}
	if cart.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	view := cartView(cart)
	lines := make([]payment.CheckoutLine, len(view.Lines))
	for i, line := range view.Lines {
		lines[i] = payment.CheckoutLine{
			Name:       fmt.Sprintf("%s (%s, %s)", line.ProductName, line.Size, line.Frame),
			Quantity:   int64(line.Quantity),
			UnitAmount: toMinorUnits(line.UnitPrice),
		}
	}

	metadata, err := payment.EncodeSessionMetadata(view.Lines, input.ShippingAddress, input.BillingAddress)
	if err != nil {
		s.logger.Error("Failed to snapshot cart for checkout",
			zap.String("user_id", input.UserID.String()), zap.Error(err))
		return nil, shared.NewDomainError("CART_TOO_LARGE", "Cart is too large to check out in one order")
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutSessionInput{
		UserID:     input.UserID,
		Email:      user.Email,
		Currency:   s.config.Currency,
		SuccessURL: s.config.SuccessURL,
		CancelURL:  s.config.CancelURL,
		Lines:      lines,
		Metadata:   metadata,
	})
	if err != nil {
		s.logger.Error("Failed to create checkout session",
			zap.String("user_id", input.UserID.String()), zap.Error(err))
		return nil, shared.ErrPaymentUnavailable
	}

	s.logger.Info("Checkout session created",
		zap.String("user_id", input.UserID.String()),
		zap.String("session_id", session.ID))

	return &CheckoutResult{SessionID: session.ID, CheckoutURL: session.URL}, nil
}

// toMinorUnits converts a major-unit price to the integer minor units
// Stripe expects (pounds to pence).
func toMinorUnits(price decimal.Decimal) int64 {
	return price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
