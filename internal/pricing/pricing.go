// Package pricing computes snapshot line prices and invoice totals.
//
// The math is deliberately trivial (price = unit value * quantity) but
// lives in its own package so the rule has exactly one home: the invoice
// a purchase produces must satisfy TotalAmount == sum of line prices, and
// every line price is a point-in-time snapshot of the catalog value.
package pricing

import (
	"fmt"

	"github.com/projectapliman/shop/internal/models"
)

// LinePrice returns the snapshot price for one purchase line:
// the item's current unit value times the requested quantity.
// Quantity must be positive; zero and negative quantities are rejected so
// an invoice total always reflects goods actually sold.
func LinePrice(item *models.Item, quantity int) (float64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	return item.Value * float64(quantity), nil
}

// Total sums the snapshot prices of the given invoice lines.
func Total(items []models.InvoiceItem) float64 {
	var total float64
	for _, line := range items {
		total += line.Price
	}
	return total
}
