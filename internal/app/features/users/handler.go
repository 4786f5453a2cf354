// Package users serves the user endpoints. Users sit outside the generic
// CRUD table because every external view strips the password digest and
// updates re-hash a plaintext password.
package users

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/store/documents"
	userstore "github.com/mandatpro/kommunalcrm/internal/app/store/users"
	"github.com/mandatpro/kommunalcrm/internal/app/system/httpjson"
	"github.com/mandatpro/kommunalcrm/internal/app/system/timeouts"
)

// Handler serves the user endpoints.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

// NewHandler constructs the users handler.
func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

// List handles GET /users with the same scoping, sorting, and limit
// conventions as the generic entity lists.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	views, err := h.Users.List(ctx, r.URL.Query().Get("organization"), r.URL.Query().Get("sort"), limit)
	if err != nil {
		httpjson.StoreError(w, err, "User")
		return
	}
	if views == nil {
		views = []documents.Document{}
	}
	httpjson.Write(w, http.StatusOK, views)
}

// Get handles GET /users/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	view, err := h.Users.ViewByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		httpjson.StoreError(w, err, "User")
		return
	}
	httpjson.Write(w, http.StatusOK, view)
}

// Update handles PUT /users/{id}. A plaintext password in the patch is
// re-hashed by the store; identity fields are stripped.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := httpjson.Decode(r, &patch); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	view, err := h.Users.Update(ctx, chi.URLParam(r, "id"), bson.M(patch))
	if err != nil {
		httpjson.StoreError(w, err, "User")
		return
	}
	httpjson.Write(w, http.StatusOK, view)
}

// UpdateRole handles PUT /users/{id}/role. org_role is a free-text label;
// no server-side enum is enforced.
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrgRole string `json:"org_role"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	view, err := h.Users.SetOrgRole(ctx, chi.URLParam(r, "id"), req.OrgRole)
	if err != nil {
		httpjson.StoreError(w, err, "User")
		return
	}
	httpjson.Write(w, http.StatusOK, view)
}
