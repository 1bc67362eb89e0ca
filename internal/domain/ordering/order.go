package ordering

import (
	"fmt"

	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
)

// OrderStatuses lists all valid statuses in fulfilment order
var OrderStatuses = []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered}

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// Order is a paid purchase created from a completed checkout session.
// CheckoutSessionID carries a unique index so a replayed payment event
// cannot create the order twice.
type Order struct {
	shared.BaseAggregateRoot
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Status            OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Total             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	CheckoutSessionID string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"checkout_session_id"`
	ShippingAddressID *uuid.UUID      `gorm:"type:uuid" json:"shipping_address_id"`
	BillingAddressID  *uuid.UUID      `gorm:"type:uuid" json:"billing_address_id"`
	Items             []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order for a completed checkout session
func NewOrder(userID uuid.UUID, checkoutSessionID string) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Order user cannot be empty")
	}
	if checkoutSessionID == "" {
		return nil, shared.NewDomainError("INVALID_SESSION", "Checkout session reference cannot be empty")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Status:            StatusPending,
		Total:             decimal.Zero,
		CheckoutSessionID: checkoutSessionID,
	}, nil
}

// AddItem appends an order item snapshotted from a cart line and
// recalculates the order total
func (o *Order) AddItem(line CartLine) error {
	if err := line.validate(); err != nil {
		return err
	}

	item := OrderItem{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     o.ID,
		ProductID:   line.ProductID,
		ProductName: line.ProductName,
		StoreID:     line.StoreID,
		Size:        line.Size,
		Frame:       line.Frame,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
	}
	o.Items = append(o.Items, item)
	o.recalculateTotal()
	return nil
}

// SetAddresses attaches the shipping and billing addresses used at checkout
func (o *Order) SetAddresses(shippingID, billingID *uuid.UUID) {
	o.ShippingAddressID = shippingID
	o.BillingAddressID = billingID
}

// UpdateStatus moves the order to a new fulfilment status
func (o *Order) UpdateStatus(status OrderStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid order status: %s", status))
	}
	o.Status = status
	o.IncrementVersion()
	return nil
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	o.Total = total
}

// ContainsStore reports whether any item belongs to the given store
func (o *Order) ContainsStore(storeID uuid.UUID) bool {
	for _, item := range o.Items {
		if item.StoreID == storeID {
			return true
		}
	}
	return false
}

// OrderItem is a purchased line with its price frozen at checkout time.
// Product name and store are snapshotted so the order history survives
// product edits and archival.
type OrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID           `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string              `gorm:"type:varchar(100);not null" json:"product_name"`
	StoreID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"store_id"`
	Size        catalog.SizeCode    `gorm:"type:varchar(1);not null" json:"size"`
	Frame       catalog.FrameColour `gorm:"type:varchar(20);not null" json:"frame_colour"`
	Quantity    int                 `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal     `gorm:"type:decimal(8,2);not null" json:"unit_price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal returns unit price times quantity
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
