// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/projectapliman/shop/internal/models"
)

// Sentinel errors returned by Store implementations. Callers match them
// with errors.Is; the HTTP layer maps them onto response status codes.
var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means the operation would break referential integrity,
	// e.g. deleting an item that historical invoices still reference.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput means the caller supplied data the store cannot
	// accept, e.g. an invoice with no user ID.
	ErrInvalidInput = errors.New("invalid input")
)

// Store defines the interface for shop storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user and populates user.ID.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID. Returns ErrNotFound if absent.
	GetUser(ctx context.Context, id int64) (*models.User, error)

	// ListUsers retrieves all users in storage order.
	ListUsers(ctx context.Context) ([]models.User, error)

	// UpdateUser replaces the mutable fields (username, name, email) of
	// an existing user. Returns ErrNotFound if the ID is absent.
	UpdateUser(ctx context.Context, user *models.User) error

	// SearchUsersByName returns users whose name contains the given
	// substring, case-insensitive. No match is an empty slice, not an error.
	SearchUsersByName(ctx context.Context, name string) ([]models.User, error)

	// CreateItem persists a new catalog item and populates item.ID.
	CreateItem(ctx context.Context, item *models.Item) error

	// GetItem retrieves an item by ID. Returns ErrNotFound if absent.
	GetItem(ctx context.Context, id int64) (*models.Item, error)

	// ListItems retrieves all items in storage order.
	ListItems(ctx context.Context) ([]models.Item, error)

	// UpdateItem replaces the mutable fields (name, description, value,
	// imageRef) of an existing item. Returns ErrNotFound if the ID is absent.
	UpdateItem(ctx context.Context, item *models.Item) error

	// DeleteItem removes an item. Returns ErrConflict if any invoice line
	// still references it and ErrNotFound if it does not exist.
	DeleteItem(ctx context.Context, id int64) error

	// SearchItemsByName returns items whose name contains the given
	// substring, case-insensitive.
	SearchItemsByName(ctx context.Context, name string) ([]models.Item, error)

	// CreateInvoice persists an invoice together with all its line items
	// as one atomic unit and populates the IDs on the invoice and every
	// line. Either every row is committed or none are; readers never see
	// a partial invoice.
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error

	// ListInvoices retrieves all invoices with their line items.
	ListInvoices(ctx context.Context) ([]models.Invoice, error)

	// ListInvoicesByUserID retrieves the invoices owned by the given user.
	ListInvoicesByUserID(ctx context.Context, userID int64) ([]models.Invoice, error)

	// ListInvoicesByUserName retrieves invoices whose owning user's name
	// contains the given substring, case-insensitive.
	ListInvoicesByUserName(ctx context.Context, name string) ([]models.Invoice, error)

	// Close releases any resources held by the store.
	Close() error
}
