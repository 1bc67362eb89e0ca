package payment

import (
	"context"
	"fmt"

	"github.com/celuvia/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"go.uber.org/zap"
)

// CheckoutLine is one Stripe line item. Amounts are in minor currency
// units (pence for GBP) as Stripe requires.
type CheckoutLine struct {
	Name       string
	Quantity   int64
	UnitAmount int64
}

// CheckoutSessionInput describes the hosted checkout to create.
// Metadata carries the cart snapshot and addresses the webhook
// materializes the order from.
type CheckoutSessionInput struct {
	UserID     uuid.UUID
	Email      string
	Currency   string
	SuccessURL string
	CancelURL  string
	Lines      []CheckoutLine
	Metadata   map[string]string
}

// CheckoutSession is the created Stripe session
type CheckoutSession struct {
	ID  string
	URL string
}

// StripeGateway creates hosted checkout sessions via the Stripe API
type StripeGateway struct {
	config config.StripeConfig
	logger *zap.Logger
}

// NewStripeGateway creates a Stripe gateway and sets the global API key
func NewStripeGateway(cfg config.StripeConfig, logger *zap.Logger) (*StripeGateway, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("stripe: secret key is required")
	}
	stripe.Key = cfg.SecretKey

	return &StripeGateway{config: cfg, logger: logger}, nil
}

// CreateCheckoutSession creates a hosted payment session. The user ID is
// carried in both the client reference and metadata so the webhook can
// attribute the completed payment.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, input CheckoutSessionInput) (*CheckoutSession, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("stripe: checkout requires at least one line item")
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, len(input.Lines))
	for i, line := range input.Lines {
		lineItems[i] = &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(line.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(input.Currency),
				UnitAmount: stripe.Int64(line.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
			},
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(input.SuccessURL),
		CancelURL:         stripe.String(input.CancelURL),
		ClientReferenceID: stripe.String(input.UserID.String()),
		CustomerEmail:     stripe.String(input.Email),
		LineItems:         lineItems,
		Metadata: sessionMetadata(input),
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe checkout session",
			zap.String("user_id", input.UserID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	g.logger.Info("Created Stripe checkout session",
		zap.String("user_id", input.UserID.String()),
		zap.String("session_id", sess.ID))

	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func sessionMetadata(input CheckoutSessionInput) map[string]string {
	metadata := map[string]string{"user_id": input.UserID.String()}
	for key, value := range input.Metadata {
		metadata[key] = value
	}
	return metadata
}
