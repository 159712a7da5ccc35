package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/projectapliman/shop/internal/models"
	"github.com/projectapliman/shop/internal/storage"
)

// CreateItem inserts a new catalog item and assigns its ID.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.Item) error {
	if item.Value < 0 {
		return fmt.Errorf("item value must be non-negative: %w", storage.ErrInvalidInput)
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO items (name, description, value, image_ref) VALUES (?, ?, ?, ?)",
		item.Name, item.Description, item.Value, item.ImageRef,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read item id: %w", err)
	}
	item.ID = id

	return nil
}

// GetItem retrieves a catalog item by ID.
func (s *SQLiteStore) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	item := &models.Item{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, value, image_ref FROM items WHERE id = ?",
		id,
	).Scan(&item.ID, &item.Name, &item.Description, &item.Value, &item.ImageRef)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// ListItems retrieves all catalog items in storage order.
func (s *SQLiteStore) ListItems(ctx context.Context) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, value, image_ref FROM items",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// UpdateItem replaces the mutable fields of an existing catalog item.
// The ID is immutable; only name, description, value and image_ref change.
func (s *SQLiteStore) UpdateItem(ctx context.Context, item *models.Item) error {
	if item.Value < 0 {
		return fmt.Errorf("item value must be non-negative: %w", storage.ErrInvalidInput)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE items SET name = ?, description = ?, value = ?, image_ref = ? WHERE id = ?",
		item.Name, item.Description, item.Value, item.ImageRef, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %d: %w", item.ID, storage.ErrNotFound)
	}

	return nil
}

// DeleteItem removes a catalog item. Items referenced by invoice lines
// cannot be deleted: historical invoices must stay valid, so the delete
// reports a conflict instead of breaking them.
func (s *SQLiteStore) DeleteItem(ctx context.Context, id int64) error {
	var referenced int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM invoice_items WHERE item_id = ?",
		id,
	).Scan(&referenced)
	if err != nil {
		return fmt.Errorf("failed to check item references: %w", err)
	}
	if referenced > 0 {
		return fmt.Errorf("item %d is referenced by %d invoice line(s): %w", id, referenced, storage.ErrConflict)
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %d: %w", id, storage.ErrNotFound)
	}

	return nil
}

// SearchItemsByName returns items whose name contains the substring,
// case-insensitive.
func (s *SQLiteStore) SearchItemsByName(ctx context.Context, name string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, value, image_ref FROM items WHERE LOWER(name) LIKE '%' || LOWER(?) || '%'",
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]models.Item, error) {
	items := []models.Item{}
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Value, &item.ImageRef); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}
