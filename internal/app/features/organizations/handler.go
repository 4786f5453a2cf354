// Package organizations serves the membership endpoint. Generic CRUD on
// organization records goes through the entities feature; this feature
// only adds the member listing under an organization slug.
package organizations

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/store/documents"
	userstore "github.com/mandatpro/kommunalcrm/internal/app/store/users"
	"github.com/mandatpro/kommunalcrm/internal/app/system/httpjson"
	"github.com/mandatpro/kommunalcrm/internal/app/system/timeouts"
)

// Handler serves the organization membership endpoints.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

// NewHandler constructs the organizations handler.
func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

// Members handles GET /organizations/{slug}/members: every user whose
// organization equals the slug, passwords stripped. An unknown slug yields
// an empty list, not a 404.
func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	members, err := h.Users.List(ctx, chi.URLParam(r, "id"), "", 0)
	if err != nil {
		httpjson.StoreError(w, err, "Organization")
		return
	}
	if members == nil {
		members = []documents.Document{}
	}
	httpjson.Write(w, http.StatusOK, members)
}
