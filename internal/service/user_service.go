package service

import (
	"log/slog"
	"net/http"

	"github.com/projectapliman/shop/internal/models"
	"github.com/projectapliman/shop/internal/storage"
)

// UserService serves the account store routes.
type UserService struct {
	store storage.Store
}

// NewUserService creates a new UserService with the given storage backend.
func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// Register attaches the user routes to the mux.
func (s *UserService) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /users", s.listUsers)
	mux.HandleFunc("GET /user/{id}", s.getUser)
	mux.HandleFunc("POST /user", s.createUser)
	mux.HandleFunc("PUT /user/{id}", s.updateUser)
	mux.HandleFunc("GET /user/search/{name}", s.searchUsers)
}

func (s *UserService) createUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := decodeJSON(r, &user); err != nil {
		writeError(w, err)
		return
	}
	user.ID = 0 // server-assigned

	if err := s.store.CreateUser(r.Context(), &user); err != nil {
		slog.Error("CreateUser failed", "error", err)
		writeError(w, err)
		return
	}

	slog.Info("User created", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusOK, user)
}

func (s *UserService) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		slog.Error("ListUsers failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (s *UserService) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *UserService) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var user models.User
	if err := decodeJSON(r, &user); err != nil {
		writeError(w, err)
		return
	}
	user.ID = id

	if err := s.store.UpdateUser(r.Context(), &user); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("User updated", "user_id", id)
	writeJSON(w, http.StatusOK, user)
}

func (s *UserService) searchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.SearchUsersByName(r.Context(), r.PathValue("name"))
	if err != nil {
		slog.Error("SearchUsers failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}
