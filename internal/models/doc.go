// Package models defines the core domain models for the shop backend.
//
// # Models
//
//   - User: a registered customer account
//   - Item: a purchasable catalog entry
//   - Invoice: a completed purchase, owning its line items
//   - InvoiceItem: one line of an invoice with a snapshot price
//
// # Design Principles
//
//  1. **Server-assigned integer IDs**: every entity gets its ID from the
//     database (AUTOINCREMENT); zero means "not persisted yet".
//  2. **Avoid circular references**: an InvoiceItem does not point back at
//     its Invoice. The owning invoice ID exists only as a column in the
//     storage layer, so the JSON representation is cycle-free.
//  3. **Snapshot pricing**: InvoiceItem.Price is fixed when the invoice is
//     created and never re-derived from the catalog, so historical
//     invoices stay correct when item values change.
package models
