package payment

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/celuvia/backend/internal/domain/ordering"
)

// CompletedCheckout is the payload extracted from a
// checkout.session.completed event. Lines is the cart snapshot taken
// when the session was created; it is nil for sessions that carry no
// snapshot in their metadata.
type CompletedCheckout struct {
	EventID         string
	SessionID       string
	UserID          uuid.UUID
	AmountTotal     int64
	Currency        string
	Lines           []ordering.CartLine
	ShippingAddress *CheckoutAddress
	BillingAddress  *CheckoutAddress
}

// WebhookVerifier validates Stripe webhook signatures
type WebhookVerifier struct {
	secret string
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

// ConstructEvent verifies the signature header and parses the event.
// A signature failure must be surfaced as an HTTP 400 by the caller so
// Stripe retries the delivery.
func (v *WebhookVerifier) ConstructEvent(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, v.secret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return event, nil
}

// ParseCompletedCheckout extracts the checkout data from an event. The
// second return is false when the event is not a completed checkout and
// should be acknowledged without processing.
func ParseCompletedCheckout(event stripe.Event) (*CompletedCheckout, bool, error) {
	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return nil, false, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, true, fmt.Errorf("failed to parse checkout session from event %s: %w", event.ID, err)
	}

	rawUserID := sess.ClientReferenceID
	if rawUserID == "" {
		rawUserID = sess.Metadata["user_id"]
	}
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return nil, true, fmt.Errorf("event %s carries no valid user reference: %w", event.ID, err)
	}

	lines, shipping, billing, err := DecodeSessionMetadata(sess.Metadata)
	if err != nil {
		return nil, true, fmt.Errorf("event %s carries a corrupt cart snapshot: %w", event.ID, err)
	}

	return &CompletedCheckout{
		EventID:         event.ID,
		SessionID:       sess.ID,
		UserID:          userID,
		AmountTotal:     sess.AmountTotal,
		Currency:        string(sess.Currency),
		Lines:           lines,
		ShippingAddress: shipping,
		BillingAddress:  billing,
	}, true, nil
}
