package domain

import (
	"fmt"
	"strings"
)

// CartLine is one requested product before pricing.
type CartLine struct {
	ProductID int
	Quantity  int
}

// Quote is the authoritative server-side price for a cart. All values
// are integer pence; Total is always Subtotal + DeliveryFee.
type Quote struct {
	Subtotal    int
	DeliveryFee int
	Total       int
}

// FeeTable maps outward-code prefixes to delivery fees in pence.
// Longest matching prefix wins; postcodes matching nothing pay
// DefaultFee. The table is business configuration, not derived data.
type FeeTable struct {
	Zones      map[string]int
	DefaultFee int
}

// DefaultFeeTable covers the delivery area around Wincanton: free local
// drops, a flat fee for the surrounding towns, and a long-haul default.
func DefaultFeeTable() FeeTable {
	return FeeTable{
		Zones: map[string]int{
			"BA9":  0,
			"BA8":  0,
			"BA10": 500,
			"BA11": 750,
			"DT9":  750,
			"SP8":  750,
		},
		DefaultFee: 1500,
	}
}

// NormalizePostcode canonicalizes a UK postcode: trim, uppercase,
// collapse whitespace, and re-insert the single space before the final
// three characters when the compacted form is long enough. The function
// is idempotent.
func NormalizePostcode(raw string) string {
	compact := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
	if len(compact) < 5 {
		return compact
	}
	return compact[:len(compact)-3] + " " + compact[len(compact)-3:]
}

// OutwardCode returns the first half of a normalized postcode, the
// coarse delivery-zone key (e.g. "BA9" from "BA9 8BW").
func OutwardCode(postcode string) string {
	normalized := NormalizePostcode(postcode)
	if i := strings.IndexByte(normalized, ' '); i >= 0 {
		return normalized[:i]
	}
	return normalized
}

// Fee resolves the delivery fee for a postcode.
func (t FeeTable) Fee(postcode string) int {
	outward := OutwardCode(postcode)
	best := -1
	fee := t.DefaultFee
	for prefix, zoneFee := range t.Zones {
		if strings.HasPrefix(outward, prefix) && len(prefix) > best {
			best = len(prefix)
			fee = zoneFee
		}
	}
	return fee
}

// PriceCart computes the authoritative quote for a cart against the
// catalog as it stands right now. Every line must carry a positive
// quantity and reference an active product; otherwise the whole cart is
// rejected and nothing is priced. Client-supplied prices are never
// consulted.
func PriceCart(lines []CartLine, products map[int]*Product, table FeeTable, postcode string) (Quote, error) {
	if len(lines) == 0 {
		return Quote{}, NewValidationError("items", "order must contain at least 1 item")
	}

	subtotal := 0
	for i, line := range lines {
		if line.Quantity < 1 {
			return Quote{}, NewValidationError(fmt.Sprintf("items[%d].quantity", i), "quantity must be a positive integer")
		}
		product, ok := products[line.ProductID]
		if !ok || !product.Active {
			return Quote{}, NewValidationError(fmt.Sprintf("items[%d].product_id", i), fmt.Sprintf("product %d not found or inactive", line.ProductID))
		}
		subtotal += product.Price * line.Quantity
	}

	fee := table.Fee(postcode)
	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal + fee,
	}, nil
}
