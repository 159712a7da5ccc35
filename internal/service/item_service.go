package service

import (
	"log/slog"
	"net/http"

	"github.com/projectapliman/shop/internal/models"
	"github.com/projectapliman/shop/internal/storage"
)

// ItemService serves the catalog store routes.
type ItemService struct {
	store storage.Store
}

// NewItemService creates a new ItemService with the given storage backend.
func NewItemService(store storage.Store) *ItemService {
	return &ItemService{store: store}
}

// Register attaches the item routes to the mux.
func (s *ItemService) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /items", s.listItems)
	mux.HandleFunc("GET /item/{id}", s.getItem)
	mux.HandleFunc("POST /item", s.createItem)
	mux.HandleFunc("PUT /item/{id}", s.updateItem)
	mux.HandleFunc("DELETE /item/{id}", s.deleteItem)
	mux.HandleFunc("GET /item/search/{name}", s.searchItems)
}

func (s *ItemService) createItem(w http.ResponseWriter, r *http.Request) {
	var item models.Item
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, err)
		return
	}
	item.ID = 0 // server-assigned

	if err := s.store.CreateItem(r.Context(), &item); err != nil {
		slog.Error("CreateItem failed", "error", err)
		writeError(w, err)
		return
	}

	slog.Info("Item created", "item_id", item.ID, "name", item.Name, "value", item.Value)
	writeJSON(w, http.StatusOK, item)
}

func (s *ItemService) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListItems(r.Context())
	if err != nil {
		slog.Error("ListItems failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (s *ItemService) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	item, err := s.store.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (s *ItemService) updateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var item models.Item
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, err)
		return
	}
	item.ID = id

	if err := s.store.UpdateItem(r.Context(), &item); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("Item updated", "item_id", id)
	writeJSON(w, http.StatusOK, item)
}

func (s *ItemService) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.DeleteItem(r.Context(), id); err != nil {
		slog.Warn("DeleteItem failed", "item_id", id, "error", err)
		writeError(w, err)
		return
	}

	slog.Info("Item deleted", "item_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *ItemService) searchItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.SearchItemsByName(r.Context(), r.PathValue("name"))
	if err != nil {
		slog.Error("SearchItems failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}
