// Package entities exposes the generic CRUD routes over the entity
// collections. One handler serves every collection, parameterized by its
// Definition; all semantics (scoping, sorting, timestamps, not-found
// bodies) are uniform across entities.
package entities

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/store/documents"
	"github.com/mandatpro/kommunalcrm/internal/app/system/httpjson"
	"github.com/mandatpro/kommunalcrm/internal/app/system/timeouts"
)

// Handler serves the generic CRUD endpoints.
type Handler struct {
	Docs *documents.Store
	Log  *zap.Logger
}

// NewHandler constructs the entities handler.
func NewHandler(docs *documents.Store, logger *zap.Logger) *Handler {
	return &Handler{Docs: docs, Log: logger}
}

// List handles GET /{collection}. Results are scoped by ?organization=,
// sorted by ?sort= (default -created_date, "-" prefix for descending), and
// capped by ?limit= (default 100).
func (h *Handler) List(d Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		q := documents.ListQuery{
			Filter: map[string]string{},
			Sort:   r.URL.Query().Get("sort"),
		}
		if org := r.URL.Query().Get("organization"); org != "" {
			q.Filter["organization"] = org
		}
		for _, field := range d.FilterFields {
			if v := r.URL.Query().Get(field); v != "" {
				q.Filter[field] = v
			}
		}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
				q.Limit = n
			}
		}

		docs, err := h.Docs.List(ctx, d.Collection, q)
		if err != nil {
			httpjson.StoreError(w, err, d.Label)
			return
		}
		if docs == nil {
			docs = []documents.Document{}
		}
		httpjson.Write(w, http.StatusOK, docs)
	}
}

// Get handles GET /{collection}/{id}.
func (h *Handler) Get(d Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		doc, err := h.Docs.Get(ctx, d.Collection, chi.URLParam(r, "id"))
		if err != nil {
			httpjson.StoreError(w, err, d.Label)
			return
		}
		httpjson.Write(w, http.StatusOK, doc)
	}
}

// Create handles POST /{collection}. The payload is free-form; identity
// fields are stripped and both timestamps stamped by the store.
func (h *Handler) Create(d Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload documents.Document
		if err := httpjson.Decode(r, &payload); err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		doc, err := h.Docs.Create(ctx, d.Collection, payload)
		if err != nil {
			httpjson.StoreError(w, err, d.Label)
			return
		}
		httpjson.Write(w, http.StatusOK, doc)
	}
}

// Update handles PUT /{collection}/{id} as a partial merge.
func (h *Handler) Update(d Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch documents.Document
		if err := httpjson.Decode(r, &patch); err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		doc, err := h.Docs.Update(ctx, d.Collection, chi.URLParam(r, "id"), patch)
		if err != nil {
			httpjson.StoreError(w, err, d.Label)
			return
		}
		httpjson.Write(w, http.StatusOK, doc)
	}
}

// Delete handles DELETE /{collection}/{id}.
func (h *Handler) Delete(d Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		if err := h.Docs.Delete(ctx, d.Collection, chi.URLParam(r, "id")); err != nil {
			httpjson.StoreError(w, err, d.Label)
			return
		}
		httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
	}
}
