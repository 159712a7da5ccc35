package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/projectapliman/shop/internal/models"
	"github.com/projectapliman/shop/internal/pricing"
	"github.com/projectapliman/shop/internal/storage"
)

var (
	invoiceCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invoice_created_total",
		Help: "Total invoices created successfully.",
	})
	invoiceCreateFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invoice_create_failed_total",
		Help: "Total purchase requests that failed without creating an invoice.",
	})
	invoiceLowAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invoice_low_amount_total",
		Help: "Total invoices whose total fell below the configured threshold.",
	})
)

// InvoiceService serves the invoice routes and implements the purchase
// flow: resolve the user, resolve every requested line against the
// catalog, snapshot line prices, and persist the aggregate atomically.
type InvoiceService struct {
	store storage.Store

	// lowAmountThreshold is the invoice total below which the low-amount
	// counter increments.
	lowAmountThreshold float64
}

// NewInvoiceService creates a new InvoiceService with the given storage
// backend and low-amount metric threshold.
func NewInvoiceService(store storage.Store, lowAmountThreshold float64) *InvoiceService {
	return &InvoiceService{store: store, lowAmountThreshold: lowAmountThreshold}
}

// Register attaches the invoice routes to the mux.
func (s *InvoiceService) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /invoice/all", s.listInvoices)
	mux.HandleFunc("POST /invoice/purchase/{userId}", s.purchase)
	mux.HandleFunc("GET /invoice/search/{customerName}", s.searchByCustomerName)
	mux.HandleFunc("GET /invoice/searchbyID/{customerId}", s.searchByCustomerID)
}

// Purchase converts a cart of requested lines into a persisted invoice.
// Any failure (unknown user, unknown item, non-positive quantity, storage
// error) aborts the whole operation; no partial invoice is ever visible
// afterwards.
func (s *InvoiceService) Purchase(ctx context.Context, userID int64, lines []models.PurchaseLine) (*models.Invoice, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", err)
		}
		return nil, err
	}

	invoice := &models.Invoice{
		User:  *user,
		Items: make([]models.InvoiceItem, 0, len(lines)),
	}

	for _, line := range lines {
		item, err := s.store.GetItem(ctx, line.ItemID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, fmt.Errorf("item not found: %w", err)
			}
			return nil, err
		}

		price, err := pricing.LinePrice(item, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("line for item %d: %v: %w", line.ItemID, err, storage.ErrInvalidInput)
		}

		invoice.Items = append(invoice.Items, models.InvoiceItem{
			Item:     *item,
			Quantity: line.Quantity,
			Price:    price,
		})
	}

	invoice.TotalAmount = pricing.Total(invoice.Items)

	if err := s.store.CreateInvoice(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to persist invoice: %w", err)
	}

	return invoice, nil
}

func (s *InvoiceService) purchase(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}

	var lines []models.PurchaseLine
	if err := decodeJSON(r, &lines); err != nil {
		writeError(w, err)
		return
	}

	invoice, err := s.Purchase(r.Context(), userID, lines)
	if err != nil {
		invoiceCreateFailedTotal.Inc()
		slog.Warn("Purchase failed", "user_id", userID, "lines", len(lines), "error", err)
		writeError(w, err)
		return
	}

	invoiceCreatedTotal.Inc()
	if invoice.TotalAmount < s.lowAmountThreshold {
		invoiceLowAmountTotal.Inc()
	}

	slog.Info("Invoice created",
		"invoice_id", invoice.ID,
		"user_id", userID,
		"lines", len(invoice.Items),
		"total_amount", invoice.TotalAmount,
	)
	writeJSON(w, http.StatusOK, invoice)
}

func (s *InvoiceService) listInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.store.ListInvoices(r.Context())
	if err != nil {
		slog.Error("ListInvoices failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, invoices)
}

func (s *InvoiceService) searchByCustomerName(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.store.ListInvoicesByUserName(r.Context(), r.PathValue("customerName"))
	if err != nil {
		slog.Error("SearchInvoicesByCustomerName failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, invoices)
}

func (s *InvoiceService) searchByCustomerID(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "customerId")
	if err != nil {
		writeError(w, err)
		return
	}

	invoices, err := s.store.ListInvoicesByUserID(r.Context(), customerID)
	if err != nil {
		slog.Error("SearchInvoicesByCustomerID failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, invoices)
}
