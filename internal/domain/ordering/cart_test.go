package ordering

import (
	"testing"

	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLine(productID uuid.UUID, size catalog.SizeCode, frame catalog.FrameColour, qty int, price string) CartLine {
	return CartLine{
		ProductID:   productID,
		ProductName: "Sunset Print",
		StoreID:     uuid.New(),
		Size:        size,
		Frame:       frame,
		Quantity:    qty,
		UnitPrice:   decimal.RequireFromString(price),
	}
}

func TestCartAdd(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("adds new line", func(t *testing.T) {
		cart := NewCart(userID)
		line := testLine(productID, catalog.SizeSmall, catalog.FrameBlack, 2, "12.50")

		require.NoError(t, cart.Add(line))
		assert.Len(t, cart.Lines, 1)
		assert.Equal(t, 2, cart.ItemCount())
		assert.False(t, cart.IsEmpty())
	})

	t.Run("merges quantities for same product size and frame", func(t *testing.T) {
		cart := NewCart(userID)
		require.NoError(t, cart.Add(testLine(productID, catalog.SizeSmall, catalog.FrameBlack, 2, "12.50")))
		require.NoError(t, cart.Add(testLine(productID, catalog.SizeSmall, catalog.FrameBlack, 3, "12.50")))

		assert.Len(t, cart.Lines, 1)
		assert.Equal(t, 5, cart.ItemCount())
	})

	t.Run("different frame makes a separate line", func(t *testing.T) {
		cart := NewCart(userID)
		require.NoError(t, cart.Add(testLine(productID, catalog.SizeSmall, catalog.FrameBlack, 1, "12.50")))
		require.NoError(t, cart.Add(testLine(productID, catalog.SizeSmall, catalog.FrameOak, 1, "12.50")))

		assert.Len(t, cart.Lines, 2)
	})

	t.Run("rejects invalid size", func(t *testing.T) {
		cart := NewCart(userID)
		line := testLine(productID, catalog.SizeCode("XL"), catalog.FrameBlack, 1, "12.50")
		require.Error(t, cart.Add(line))
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		cart := NewCart(userID)
		line := testLine(productID, catalog.SizeSmall, catalog.FrameBlack, 0, "12.50")
		require.Error(t, cart.Add(line))
	})
}

func TestCartUpdate(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	line := testLine(productID, catalog.SizeMedium, catalog.FrameSilver, 2, "20.00")

	t.Run("sets quantity", func(t *testing.T) {
		cart := NewCart(userID)
		require.NoError(t, cart.Add(line))
		require.NoError(t, cart.Update(line.Key(), 7))
		assert.Equal(t, 7, cart.ItemCount())
	})

	t.Run("zero quantity removes line", func(t *testing.T) {
		cart := NewCart(userID)
		require.NoError(t, cart.Add(line))
		require.NoError(t, cart.Update(line.Key(), 0))
		assert.True(t, cart.IsEmpty())
	})

	t.Run("unknown key fails", func(t *testing.T) {
		cart := NewCart(userID)
		require.Error(t, cart.Update("missing", 1))
	})
}

func TestCartTotal(t *testing.T) {
	cart := NewCart(uuid.New())
	require.NoError(t, cart.Add(testLine(uuid.New(), catalog.SizeSmall, catalog.FrameBlack, 2, "10.00")))
	require.NoError(t, cart.Add(testLine(uuid.New(), catalog.SizeLarge, catalog.FrameWhite, 1, "35.50")))

	assert.True(t, cart.Total().Equal(decimal.RequireFromString("55.50")))
}

func TestCartRemove(t *testing.T) {
	cart := NewCart(uuid.New())
	line := testLine(uuid.New(), catalog.SizeSmall, catalog.FrameBlack, 1, "10.00")
	require.NoError(t, cart.Add(line))

	cart.Remove(line.Key())
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Total().IsZero())
}
