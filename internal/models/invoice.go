package models

import "time"

// Invoice represents a completed purchase by one user.
//
// An invoice is created fully formed by the purchase flow and is
// thereafter immutable. It exclusively owns its line items: they are
// created with it in one transaction and removed with it (the storage
// schema cascades the delete).
type Invoice struct {
	// ID is the server-assigned identifier. Zero until persisted.
	ID int64 `json:"id"`

	// User is the customer the invoice belongs to. Required, set at
	// creation, never reassigned.
	User User `json:"user"`

	// Items are the invoice's line items, in the order they were
	// requested.
	Items []InvoiceItem `json:"items"`

	// TotalAmount is the sum of all line prices, computed once when the
	// invoice is created.
	TotalAmount float64 `json:"totalAmount"`

	// PurchaseDate is the server time the invoice was created.
	PurchaseDate time.Time `json:"purchaseDate"`
}

// InvoiceItem is one line of an invoice.
//
// It references a catalog item by identity but stores the price as a
// snapshot, so later catalog edits never change what was actually billed.
// The owning invoice's ID is a storage-layer concern and is intentionally
// absent here to keep serialized invoices cycle-free.
type InvoiceItem struct {
	// ID is the server-assigned identifier. Zero until persisted.
	ID int64 `json:"id"`

	// Item is the catalog item this line refers to, as it looked when
	// the invoice was created.
	Item Item `json:"item"`

	// Quantity is the number of units purchased. Always positive; the
	// purchase flow rejects zero and negative quantities.
	Quantity int `json:"quantity"`

	// Price is Item.Value * Quantity at purchase time, frozen thereafter.
	Price float64 `json:"price"`
}

// PurchaseLine is one requested line of a purchase: which item and how
// many units. This is the wire shape of the purchase request body.
type PurchaseLine struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}
