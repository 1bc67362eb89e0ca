package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/domain/ordering"
	"github.com/celuvia/backend/internal/infrastructure/payment"
)

// AddToCartInput contains the input for adding a product to the cart
type AddToCartInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Size      catalog.SizeCode
	Frame     catalog.FrameColour
	Quantity  int
}

// UpdateCartLineInput changes a line's quantity; zero removes the line
type UpdateCartLineInput struct {
	UserID   uuid.UUID
	LineKey  string
	Quantity int
}

// CartView is the cart presented to the client
type CartView struct {
	Lines     []ordering.CartLine
	ItemCount int
	Total     decimal.Decimal
}

// CheckoutInput starts a hosted checkout. Addresses are optional; when
// present they ride along in session metadata and become Address rows
// when the payment completes.
type CheckoutInput struct {
	UserID          uuid.UUID
	ShippingAddress *payment.CheckoutAddress
	BillingAddress  *payment.CheckoutAddress
}

// CheckoutResult carries the hosted payment page for the client
type CheckoutResult struct {
	SessionID   string
	CheckoutURL string
}

// WebhookResult reports how a webhook delivery was handled
type WebhookResult struct {
	EventID   string
	EventType string
	Processed bool
	Message   string
}

// UpdateOrderStatusInput contains the input for a vendor status change
type UpdateOrderStatusInput struct {
	OrderID  uuid.UUID
	VendorID uuid.UUID
	Status   ordering.OrderStatus
}

// OrderView is an order presented to the client
type OrderView struct {
	ID        uuid.UUID
	Status    ordering.OrderStatus
	Total     decimal.Decimal
	CreatedAt time.Time
	Items     []ordering.OrderItem
}

func orderView(order ordering.Order) OrderView {
	return OrderView{
		ID:        order.ID,
		Status:    order.Status,
		Total:     order.Total,
		CreatedAt: order.CreatedAt,
		Items:     order.Items,
	}
}

func orderViews(orders []ordering.Order) []OrderView {
	views := make([]OrderView, len(orders))
	for i, order := range orders {
		views[i] = orderView(order)
	}
	return views
}
