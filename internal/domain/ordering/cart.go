package ordering

import (
	"context"
	"fmt"

	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is a prospective order line. The unit price is snapshotted when
// the line is added; later price changes by the vendor do not affect it.
type CartLine struct {
	ProductID   uuid.UUID           `json:"product_id"`
	ProductName string              `json:"product_name"`
	StoreID     uuid.UUID           `json:"store_id"`
	Size        catalog.SizeCode    `json:"size"`
	Frame       catalog.FrameColour `json:"frame_colour"`
	Quantity    int                 `json:"quantity"`
	UnitPrice   decimal.Decimal     `json:"unit_price"`
}

// Key returns the composite line key derived from product, size, and frame
func (l CartLine) Key() string {
	return fmt.Sprintf("%s|%s|%s", l.ProductID, l.Size, l.Frame)
}

// Subtotal returns unit price times quantity
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l CartLine) validate() error {
	if l.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Cart line product cannot be empty")
	}
	if !l.Size.IsValid() {
		return shared.NewDomainError("INVALID_SIZE", "Invalid size selected")
	}
	if !l.Frame.IsValid() {
		return shared.NewDomainError("INVALID_FRAME", "Invalid frame colour selected")
	}
	if l.Quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if l.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return nil
}

// Cart holds a user's transient order lines keyed by CartLine.Key.
// It has no database persistence; it lives in the cart store until checkout
// completes or the entry expires.
type Cart struct {
	UserID uuid.UUID           `json:"user_id"`
	Lines  map[string]CartLine `json:"lines"`
}

// NewCart creates an empty cart for a user
func NewCart(userID uuid.UUID) *Cart {
	return &Cart{
		UserID: userID,
		Lines:  make(map[string]CartLine),
	}
}

// Add inserts a line, merging quantities when the (product, size, frame)
// key already exists. The existing price snapshot wins on merge.
func (c *Cart) Add(line CartLine) error {
	if err := line.validate(); err != nil {
		return err
	}

	key := line.Key()
	if existing, ok := c.Lines[key]; ok {
		existing.Quantity += line.Quantity
		c.Lines[key] = existing
		return nil
	}

	c.Lines[key] = line
	return nil
}

// Update sets the quantity of an existing line; quantity <= 0 removes it
func (c *Cart) Update(key string, quantity int) error {
	line, ok := c.Lines[key]
	if !ok {
		return shared.NewDomainError("LINE_NOT_FOUND", "Cart item not found")
	}

	if quantity <= 0 {
		delete(c.Lines, key)
		return nil
	}

	line.Quantity = quantity
	c.Lines[key] = line
	return nil
}

// Remove deletes a line from the cart
func (c *Cart) Remove(key string) {
	delete(c.Lines, key)
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total returns the sum of line subtotals
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ItemCount returns the total quantity across all lines
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// CartStore persists carts per user. Keying by user ID rather than browser
// session lets the payment webhook clear the cart that produced the order.
type CartStore interface {
	// Get returns the user's cart, or an empty cart when none is stored
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Clear(ctx context.Context, userID uuid.UUID) error
}
