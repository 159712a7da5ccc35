package sqlite

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/projectapliman/shop/internal/models"
	"github.com/projectapliman/shop/internal/storage"
)

// newTestStore creates a store over a temp database that is removed when
// the test finishes.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func createTestUser(t *testing.T, store *SQLiteStore, name string) *models.User {
	t.Helper()

	user := &models.User{Username: name, Name: name, Email: name + "@example.com"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func createTestItem(t *testing.T, store *SQLiteStore, name string, value float64) *models.Item {
	t.Helper()

	item := &models.Item{Name: name, Description: "test item", Value: value, ImageRef: "http://img/" + name}
	if err := store.CreateItem(context.Background(), item); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	return item
}

func TestUserStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser assigns ID", func(t *testing.T) {
		user := &models.User{Username: "jdoe", Name: "John Doe", Email: "jdoe@example.com"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.ID == 0 {
			t.Error("Expected user ID to be assigned")
		}
	})

	t.Run("GetUser retrieves stored fields", func(t *testing.T) {
		created := createTestUser(t, store, "alice")

		got, err := store.GetUser(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got.Username != "alice" || got.Name != "alice" || got.Email != "alice@example.com" {
			t.Errorf("GetUser = %+v, want fields of %+v", got, created)
		}
	})

	t.Run("GetUser returns ErrNotFound for missing ID", func(t *testing.T) {
		_, err := store.GetUser(ctx, 99999)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateUser replaces mutable fields", func(t *testing.T) {
		user := createTestUser(t, store, "bob")

		user.Username = "bobby"
		user.Name = "Bobby Tables"
		user.Email = "bobby@example.com"
		if err := store.UpdateUser(ctx, user); err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}

		got, err := store.GetUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got.Name != "Bobby Tables" || got.Username != "bobby" {
			t.Errorf("Update not applied: %+v", got)
		}
	})

	t.Run("UpdateUser returns ErrNotFound for missing ID", func(t *testing.T) {
		err := store.UpdateUser(ctx, &models.User{ID: 99999, Username: "x", Name: "x", Email: "x"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("SearchUsersByName is case-insensitive substring", func(t *testing.T) {
		createTestUser(t, store, "Charlie Brown")

		for _, query := range []string{"charlie", "BROWN", "e Br"} {
			matches, err := store.SearchUsersByName(ctx, query)
			if err != nil {
				t.Fatalf("SearchUsersByName(%q) failed: %v", query, err)
			}
			found := false
			for _, u := range matches {
				if u.Name == "Charlie Brown" {
					found = true
				}
			}
			if !found {
				t.Errorf("SearchUsersByName(%q) did not find Charlie Brown", query)
			}
		}
	})

	t.Run("SearchUsersByName returns empty slice on no match", func(t *testing.T) {
		matches, err := store.SearchUsersByName(ctx, "no-such-user")
		if err != nil {
			t.Fatalf("SearchUsersByName failed: %v", err)
		}
		if matches == nil || len(matches) != 0 {
			t.Errorf("Expected empty slice, got %v", matches)
		}
	})
}

func TestItemStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateItem assigns ID", func(t *testing.T) {
		item := createTestItem(t, store, "Pen", 10.0)
		if item.ID == 0 {
			t.Error("Expected item ID to be assigned")
		}
	})

	t.Run("CreateItem rejects negative value", func(t *testing.T) {
		err := store.CreateItem(ctx, &models.Item{Name: "Bad", Value: -1})
		if !errors.Is(err, storage.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("UpdateItem replaces mutable fields only", func(t *testing.T) {
		item := createTestItem(t, store, "Notebook", 5.0)
		originalID := item.ID

		item.Name = "Spiral Notebook"
		item.Value = 6.5
		item.Description = "updated"
		item.ImageRef = "http://img/new"
		if err := store.UpdateItem(ctx, item); err != nil {
			t.Fatalf("UpdateItem failed: %v", err)
		}

		got, err := store.GetItem(ctx, originalID)
		if err != nil {
			t.Fatalf("GetItem failed: %v", err)
		}
		if got.ID != originalID {
			t.Errorf("Item ID changed: got %d, want %d", got.ID, originalID)
		}
		if got.Name != "Spiral Notebook" || got.Value != 6.5 {
			t.Errorf("Update not applied: %+v", got)
		}
	})

	t.Run("UpdateItem returns ErrNotFound for missing ID", func(t *testing.T) {
		err := store.UpdateItem(ctx, &models.Item{ID: 99999, Name: "x"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteItem removes unreferenced item", func(t *testing.T) {
		item := createTestItem(t, store, "Disposable", 1.0)

		if err := store.DeleteItem(ctx, item.ID); err != nil {
			t.Fatalf("DeleteItem failed: %v", err)
		}

		if _, err := store.GetItem(ctx, item.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}

		matches, err := store.SearchItemsByName(ctx, "Disposable")
		if err != nil {
			t.Fatalf("SearchItemsByName failed: %v", err)
		}
		if len(matches) != 0 {
			t.Errorf("Deleted item still found by search: %v", matches)
		}
	})

	t.Run("DeleteItem returns ErrNotFound for missing ID", func(t *testing.T) {
		err := store.DeleteItem(ctx, 99999)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteItem returns ErrConflict when referenced by an invoice", func(t *testing.T) {
		user := createTestUser(t, store, "buyer")
		item := createTestItem(t, store, "Keeper", 4.0)

		invoice := &models.Invoice{
			User:        *user,
			Items:       []models.InvoiceItem{{Item: *item, Quantity: 2, Price: 8.0}},
			TotalAmount: 8.0,
		}
		if err := store.CreateInvoice(ctx, invoice); err != nil {
			t.Fatalf("CreateInvoice failed: %v", err)
		}

		err := store.DeleteItem(ctx, item.ID)
		if !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("Expected ErrConflict, got %v", err)
		}

		// Item and invoice line must be unchanged afterwards.
		got, err := store.GetItem(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetItem after failed delete: %v", err)
		}
		if got.Name != "Keeper" {
			t.Errorf("Item changed after failed delete: %+v", got)
		}

		invoices, err := store.ListInvoicesByUserID(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListInvoicesByUserID failed: %v", err)
		}
		if len(invoices) != 1 || len(invoices[0].Items) != 1 {
			t.Errorf("Invoice changed after failed delete: %+v", invoices)
		}
	})

	t.Run("SearchItemsByName is case-insensitive substring", func(t *testing.T) {
		createTestItem(t, store, "Blue Widget", 3.0)

		for _, query := range []string{"blue", "WIDGET", "e Wi"} {
			matches, err := store.SearchItemsByName(ctx, query)
			if err != nil {
				t.Fatalf("SearchItemsByName(%q) failed: %v", query, err)
			}
			found := false
			for _, i := range matches {
				if i.Name == "Blue Widget" {
					found = true
				}
			}
			if !found {
				t.Errorf("SearchItemsByName(%q) did not find Blue Widget", query)
			}
		}
	})
}

func TestInvoiceStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateInvoice assigns IDs to invoice and every line", func(t *testing.T) {
		user := createTestUser(t, store, "dana")
		pen := createTestItem(t, store, "Pen", 10.0)
		pad := createTestItem(t, store, "Pad", 2.5)

		invoice := &models.Invoice{
			User: *user,
			Items: []models.InvoiceItem{
				{Item: *pen, Quantity: 3, Price: 30.0},
				{Item: *pad, Quantity: 4, Price: 10.0},
			},
			TotalAmount: 40.0,
		}
		if err := store.CreateInvoice(ctx, invoice); err != nil {
			t.Fatalf("CreateInvoice failed: %v", err)
		}

		if invoice.ID == 0 {
			t.Error("Expected invoice ID to be assigned")
		}
		for i, line := range invoice.Items {
			if line.ID == 0 {
				t.Errorf("Expected line %d ID to be assigned", i)
			}
		}
		if invoice.PurchaseDate.IsZero() {
			t.Error("Expected purchase date to be set")
		}
	})

	t.Run("CreateInvoice without user is rejected", func(t *testing.T) {
		err := store.CreateInvoice(ctx, &models.Invoice{})
		if !errors.Is(err, storage.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("CreateInvoice rolls back completely on a bad line", func(t *testing.T) {
		user := createTestUser(t, store, "erin")
		pen := createTestItem(t, store, "Rollback Pen", 10.0)

		beforeInvoices, beforeLines, err := store.countInvoiceRows(ctx)
		if err != nil {
			t.Fatalf("countInvoiceRows failed: %v", err)
		}

		// Second line references a nonexistent item; the FK violation must
		// roll back the invoice row and the first line.
		invoice := &models.Invoice{
			User: *user,
			Items: []models.InvoiceItem{
				{Item: *pen, Quantity: 1, Price: 10.0},
				{Item: models.Item{ID: 99999}, Quantity: 1, Price: 1.0},
			},
			TotalAmount: 11.0,
		}
		if err := store.CreateInvoice(ctx, invoice); err == nil {
			t.Fatal("Expected CreateInvoice to fail on missing item")
		}

		afterInvoices, afterLines, err := store.countInvoiceRows(ctx)
		if err != nil {
			t.Fatalf("countInvoiceRows failed: %v", err)
		}
		if afterInvoices != beforeInvoices || afterLines != beforeLines {
			t.Errorf("Partial invoice persisted: invoices %d->%d, lines %d->%d",
				beforeInvoices, afterInvoices, beforeLines, afterLines)
		}
	})

	t.Run("Line price is a snapshot independent of later item changes", func(t *testing.T) {
		user := createTestUser(t, store, "frank")
		item := createTestItem(t, store, "Snapshot Pen", 10.0)

		invoice := &models.Invoice{
			User:        *user,
			Items:       []models.InvoiceItem{{Item: *item, Quantity: 3, Price: 30.0}},
			TotalAmount: 30.0,
		}
		if err := store.CreateInvoice(ctx, invoice); err != nil {
			t.Fatalf("CreateInvoice failed: %v", err)
		}

		item.Value = 20.0
		if err := store.UpdateItem(ctx, item); err != nil {
			t.Fatalf("UpdateItem failed: %v", err)
		}

		invoices, err := store.ListInvoicesByUserID(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListInvoicesByUserID failed: %v", err)
		}
		if len(invoices) != 1 {
			t.Fatalf("Expected 1 invoice, got %d", len(invoices))
		}
		line := invoices[0].Items[0]
		if math.Abs(line.Price-30.0) > 1e-9 {
			t.Errorf("Snapshot price changed: got %v, want 30.0", line.Price)
		}
		// The referenced item reflects its current catalog state.
		if math.Abs(line.Item.Value-20.0) > 1e-9 {
			t.Errorf("Referenced item value = %v, want current 20.0", line.Item.Value)
		}
	})

	t.Run("ListInvoicesByUserName matches case-insensitive substring", func(t *testing.T) {
		user := createTestUser(t, store, "Grace Hopper")
		item := createTestItem(t, store, "Compiler", 100.0)

		invoice := &models.Invoice{
			User:        *user,
			Items:       []models.InvoiceItem{{Item: *item, Quantity: 1, Price: 100.0}},
			TotalAmount: 100.0,
		}
		if err := store.CreateInvoice(ctx, invoice); err != nil {
			t.Fatalf("CreateInvoice failed: %v", err)
		}

		invoices, err := store.ListInvoicesByUserName(ctx, "hopper")
		if err != nil {
			t.Fatalf("ListInvoicesByUserName failed: %v", err)
		}
		if len(invoices) != 1 {
			t.Fatalf("Expected 1 invoice for 'hopper', got %d", len(invoices))
		}
		if invoices[0].User.Name != "Grace Hopper" {
			t.Errorf("Wrong owner: %+v", invoices[0].User)
		}
	})

	t.Run("Search misses return empty slices", func(t *testing.T) {
		byName, err := store.ListInvoicesByUserName(ctx, "nobody-at-all")
		if err != nil {
			t.Fatalf("ListInvoicesByUserName failed: %v", err)
		}
		if len(byName) != 0 {
			t.Errorf("Expected no invoices, got %d", len(byName))
		}

		byID, err := store.ListInvoicesByUserID(ctx, 99999)
		if err != nil {
			t.Fatalf("ListInvoicesByUserID failed: %v", err)
		}
		if len(byID) != 0 {
			t.Errorf("Expected no invoices, got %d", len(byID))
		}
	})

	t.Run("Purchase date round-trips through storage", func(t *testing.T) {
		user := createTestUser(t, store, "heidi")
		item := createTestItem(t, store, "Clock", 9.0)

		when := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
		invoice := &models.Invoice{
			User:         *user,
			Items:        []models.InvoiceItem{{Item: *item, Quantity: 1, Price: 9.0}},
			TotalAmount:  9.0,
			PurchaseDate: when,
		}
		if err := store.CreateInvoice(ctx, invoice); err != nil {
			t.Fatalf("CreateInvoice failed: %v", err)
		}

		invoices, err := store.ListInvoicesByUserID(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListInvoicesByUserID failed: %v", err)
		}
		if !invoices[0].PurchaseDate.Equal(when) {
			t.Errorf("PurchaseDate = %v, want %v", invoices[0].PurchaseDate, when)
		}
	})
}
