package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/projectapliman/shop/internal/models"
	"github.com/projectapliman/shop/internal/storage/sqlite"
)

// setupTestServer starts an httptest server with every service registered
// over a temp SQLite database.
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	mux := http.NewServeMux()
	NewUserService(store).Register(mux)
	NewItemService(store).Register(mux)
	NewInvoiceService(store, 50.0).Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return server
}

// doJSON sends a request with an optional JSON body and decodes the JSON
// response into out (skipped when out is nil). Returns the status code.
func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < http.StatusMultipleChoices {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode %s %s response: %v", method, url, err)
		}
	}

	return resp.StatusCode
}

func createUser(t *testing.T, baseURL, name string) models.User {
	t.Helper()

	var user models.User
	status := doJSON(t, http.MethodPost, baseURL+"/user",
		models.User{Username: name, Name: name, Email: name + "@example.com"}, &user)
	if status != http.StatusOK {
		t.Fatalf("POST /user returned %d", status)
	}
	if user.ID == 0 {
		t.Fatal("expected server-assigned user ID")
	}
	return user
}

func createItem(t *testing.T, baseURL, name string, value float64) models.Item {
	t.Helper()

	var item models.Item
	status := doJSON(t, http.MethodPost, baseURL+"/item",
		models.Item{Name: name, Description: "test", Value: value, ImageRef: "http://img/x"}, &item)
	if status != http.StatusOK {
		t.Fatalf("POST /item returned %d", status)
	}
	if item.ID == 0 {
		t.Fatal("expected server-assigned item ID")
	}
	return item
}

func listInvoices(t *testing.T, baseURL string) []models.Invoice {
	t.Helper()

	var invoices []models.Invoice
	if status := doJSON(t, http.MethodGet, baseURL+"/invoice/all", nil, &invoices); status != http.StatusOK {
		t.Fatalf("GET /invoice/all returned %d", status)
	}
	return invoices
}
