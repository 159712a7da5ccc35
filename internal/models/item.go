package models

// Item represents a purchasable catalog entry.
type Item struct {
	// ID is the server-assigned identifier. Zero until persisted.
	// Immutable once assigned; updates never touch it.
	ID int64 `json:"itemId"`

	// Name is the display name of the item. Catalog search matches
	// case-insensitive substrings of this field.
	Name string `json:"name"`

	// Description is free-form text describing the item.
	Description string `json:"description"`

	// Value is the current unit price. Purchases snapshot it into
	// InvoiceItem.Price; changing it later never rewrites history.
	Value float64 `json:"value"`

	// ImageRef is an opaque reference to the item's image (usually a URL).
	ImageRef string `json:"imageRef"`
}
