package payment

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/domain/ordering"
)

// Stripe caps metadata at 50 keys of 500 characters each, so the cart
// snapshot is chunked across numbered keys.
const (
	metadataCartPartsKey = "cart_parts"
	metadataShippingKey  = "shipping_address"
	metadataBillingKey   = "billing_address"
	metadataChunkSize    = 450
	metadataMaxParts     = 40
)

// CheckoutAddress is the address captured on the checkout form and
// carried through session metadata to the webhook. Field tags are kept
// short to stay inside Stripe's metadata value limit.
type CheckoutAddress struct {
	FullName string `json:"n"`
	Line1    string `json:"l1"`
	Line2    string `json:"l2,omitempty"`
	Town     string `json:"t,omitempty"`
	City     string `json:"c"`
	Postcode string `json:"pc"`
	Phone    string `json:"ph,omitempty"`
}

type metaLine struct {
	ProductID   uuid.UUID       `json:"p"`
	StoreID     uuid.UUID       `json:"st"`
	ProductName string          `json:"pn"`
	Size        string          `json:"s"`
	Frame       string          `json:"f"`
	Quantity    int             `json:"q"`
	UnitPrice   decimal.Decimal `json:"u"`
}

// EncodeSessionMetadata serializes the cart lines and checkout addresses
// into session metadata. The webhook builds the order from this snapshot
// so cart edits made while the buyer is on the payment page cannot change
// what gets fulfilled.
func EncodeSessionMetadata(lines []ordering.CartLine, shipping, billing *CheckoutAddress) (map[string]string, error) {
	compact := make([]metaLine, len(lines))
	for i, line := range lines {
		compact[i] = metaLine{
			ProductID:   line.ProductID,
			StoreID:     line.StoreID,
			ProductName: line.ProductName,
			Size:        line.Size.String(),
			Frame:       line.Frame.String(),
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
	}
	encoded, err := json.Marshal(compact)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart snapshot: %w", err)
	}

	parts := 0
	metadata := make(map[string]string)
	for chunk := encoded; len(chunk) > 0; parts++ {
		if parts == metadataMaxParts {
			return nil, fmt.Errorf("cart snapshot exceeds session metadata capacity")
		}
		n := len(chunk)
		if n > metadataChunkSize {
			n = metadataChunkSize
		}
		metadata[fmt.Sprintf("cart_%d", parts)] = string(chunk[:n])
		chunk = chunk[n:]
	}
	metadata[metadataCartPartsKey] = strconv.Itoa(parts)

	if err := putAddress(metadata, metadataShippingKey, shipping); err != nil {
		return nil, err
	}
	if err := putAddress(metadata, metadataBillingKey, billing); err != nil {
		return nil, err
	}
	return metadata, nil
}

func putAddress(metadata map[string]string, key string, address *CheckoutAddress) error {
	if address == nil {
		return nil
	}
	encoded, err := json.Marshal(address)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if len(encoded) > 500 {
		return fmt.Errorf("%s exceeds session metadata capacity", key)
	}
	metadata[key] = string(encoded)
	return nil
}

// DecodeSessionMetadata extracts the cart snapshot and addresses from
// session metadata. Sessions created without a snapshot return nil lines.
func DecodeSessionMetadata(metadata map[string]string) ([]ordering.CartLine, *CheckoutAddress, *CheckoutAddress, error) {
	raw, ok := metadata[metadataCartPartsKey]
	if !ok {
		return nil, nil, nil, nil
	}
	parts, err := strconv.Atoi(raw)
	if err != nil || parts < 1 {
		return nil, nil, nil, fmt.Errorf("invalid cart snapshot part count %q", raw)
	}

	var encoded []byte
	for i := 0; i < parts; i++ {
		chunk, ok := metadata[fmt.Sprintf("cart_%d", i)]
		if !ok {
			return nil, nil, nil, fmt.Errorf("cart snapshot part %d is missing", i)
		}
		encoded = append(encoded, chunk...)
	}

	var compact []metaLine
	if err := json.Unmarshal(encoded, &compact); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to decode cart snapshot: %w", err)
	}
	lines := make([]ordering.CartLine, len(compact))
	for i, line := range compact {
		lines[i] = ordering.CartLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			StoreID:     line.StoreID,
			Size:        catalog.SizeCode(line.Size),
			Frame:       catalog.FrameColour(line.Frame),
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
	}

	shipping, err := getAddress(metadata, metadataShippingKey)
	if err != nil {
		return nil, nil, nil, err
	}
	billing, err := getAddress(metadata, metadataBillingKey)
	if err != nil {
		return nil, nil, nil, err
	}
	return lines, shipping, billing, nil
}

func getAddress(metadata map[string]string, key string) (*CheckoutAddress, error) {
	raw, ok := metadata[key]
	if !ok {
		return nil, nil
	}
	var address CheckoutAddress
	if err := json.Unmarshal([]byte(raw), &address); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return &address, nil
}
