package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/projectapliman/shop/internal/models"
	"github.com/projectapliman/shop/internal/storage"
)

// CreateInvoice persists an invoice together with all its line items in a
// single transaction. Either the invoice row and every line row are
// committed, or none are; a failure on any line rolls everything back so
// readers never observe a partial invoice.
func (s *SQLiteStore) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	if invoice.User.ID == 0 {
		return fmt.Errorf("invoice requires a user: %w", storage.ErrInvalidInput)
	}
	if invoice.PurchaseDate.IsZero() {
		invoice.PurchaseDate = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Insert invoice
	res, err := tx.ExecContext(ctx,
		"INSERT INTO invoices (user_id, total_amount, purchase_date) VALUES (?, ?, ?)",
		invoice.User.ID, invoice.TotalAmount, invoice.PurchaseDate.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}

	invoiceID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read invoice id: %w", err)
	}
	invoice.ID = invoiceID

	// Insert line items
	for i := range invoice.Items {
		line := &invoice.Items[i]

		res, err := tx.ExecContext(ctx,
			"INSERT INTO invoice_items (invoice_id, item_id, quantity, price) VALUES (?, ?, ?, ?)",
			invoiceID, line.Item.ID, line.Quantity, line.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to insert invoice line: %w", err)
		}

		lineID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read invoice line id: %w", err)
		}
		line.ID = lineID
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListInvoices retrieves all invoices with their line items.
func (s *SQLiteStore) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	return s.listInvoices(ctx, "", nil)
}

// ListInvoicesByUserID retrieves the invoices owned by the given user.
func (s *SQLiteStore) ListInvoicesByUserID(ctx context.Context, userID int64) ([]models.Invoice, error) {
	return s.listInvoices(ctx, "WHERE u.id = ?", []any{userID})
}

// ListInvoicesByUserName retrieves invoices whose owning user's name
// contains the substring, case-insensitive.
func (s *SQLiteStore) ListInvoicesByUserName(ctx context.Context, name string) ([]models.Invoice, error) {
	return s.listInvoices(ctx, "WHERE LOWER(u.name) LIKE '%' || LOWER(?) || '%'", []any{name})
}

// listInvoices loads invoices matching the optional filter, then attaches
// the line items of each. The owning user is joined in so responses carry
// the full customer record.
func (s *SQLiteStore) listInvoices(ctx context.Context, filter string, args []any) ([]models.Invoice, error) {
	query := `
		SELECT i.id, i.total_amount, i.purchase_date,
		       u.id, u.username, u.name, u.email
		FROM invoices i
		JOIN users u ON u.id = i.user_id ` + filter

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		var inv models.Invoice
		var purchaseDate string
		if err := rows.Scan(
			&inv.ID, &inv.TotalAmount, &purchaseDate,
			&inv.User.ID, &inv.User.Username, &inv.User.Name, &inv.User.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}

		inv.PurchaseDate, err = time.Parse(time.RFC3339Nano, purchaseDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse purchase date: %w", err)
		}

		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}

	for i := range invoices {
		items, err := s.listInvoiceItems(ctx, invoices[i].ID)
		if err != nil {
			return nil, err
		}
		invoices[i].Items = items
	}

	return invoices, nil
}

// listInvoiceItems loads the line items of one invoice, joined with the
// current catalog record of each referenced item. The line's price stays
// the snapshot taken at purchase time regardless of the item's current value.
func (s *SQLiteStore) listInvoiceItems(ctx context.Context, invoiceID int64) ([]models.InvoiceItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.quantity, l.price,
		       t.id, t.name, t.description, t.value, t.image_ref
		FROM invoice_items l
		JOIN items t ON t.id = l.item_id
		WHERE l.invoice_id = ?
		ORDER BY l.id`,
		invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice lines: %w", err)
	}
	defer rows.Close()

	items := []models.InvoiceItem{}
	for rows.Next() {
		var line models.InvoiceItem
		if err := rows.Scan(
			&line.ID, &line.Quantity, &line.Price,
			&line.Item.ID, &line.Item.Name, &line.Item.Description, &line.Item.Value, &line.Item.ImageRef,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice line: %w", err)
		}
		items = append(items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoice lines: %w", err)
	}

	return items, nil
}

// countInvoiceRows reports the number of invoice and invoice line rows.
// Used by tests to verify that failed purchases leave no partial state.
func (s *SQLiteStore) countInvoiceRows(ctx context.Context) (invoices, lines int, err error) {
	if err = s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM invoices").Scan(&invoices); err != nil {
		return 0, 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	if err = s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM invoice_items").Scan(&lines); err != nil {
		return 0, 0, fmt.Errorf("failed to count invoice lines: %w", err)
	}
	return invoices, lines, nil
}
