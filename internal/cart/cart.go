// Package cart turns raw (productId, qty) lines into priced, displayable
// items by joining against a catalog snapshot, and computes the totals
// checkout is gated on.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/Dhwanith/qkart/internal/api"
	"github.com/Dhwanith/qkart/internal/catalog"
)

// Item is a cart line enriched with the product fields the current
// catalog snapshot knows. Items are recomputed on every render and never
// stored.
type Item struct {
	Product catalog.Product
	Qty     int
}

// Materialize joins cart lines against the catalog index. Lines whose
// product is missing from the snapshot are dropped without error: the
// cart and catalog are fetched independently and may be transiently
// inconsistent. Output order follows line order.
func Materialize(lines []api.CartLine, idx catalog.Index) []Item {
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		p, ok := idx.Lookup(line.ProductID)
		if !ok {
			continue
		}
		items = append(items, Item{Product: p, Qty: line.Qty})
	}
	return items
}

// TotalValue is the sum of cost*qty over the items.
func TotalValue(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Product.Cost.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	return total
}

// ItemCount is the number of distinct item entries, not summed
// quantities.
func ItemCount(items []Item) int {
	return len(items)
}

// InCart reports whether productID already has a line, which the product
// grid uses to warn instead of double-adding.
func InCart(lines []api.CartLine, productID string) bool {
	for _, line := range lines {
		if line.ProductID == productID {
			return true
		}
	}
	return false
}
