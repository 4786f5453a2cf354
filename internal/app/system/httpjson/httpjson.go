// Package httpjson holds the JSON request/response helpers shared by all
// API handlers, including the translation of store/service sentinel errors
// into transport-level status codes.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mandatpro/kommunalcrm/internal/app/store"
)

// Write renders v as a JSON response with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error renders the uniform error body {"detail": …}.
func Error(w http.ResponseWriter, status int, detail string) {
	Write(w, status, map[string]string{"detail": detail})
}

// NotFound renders the per-entity 404 body ("<Label> not found").
func NotFound(w http.ResponseWriter, label string) {
	Error(w, http.StatusNotFound, label+" not found")
}

// StoreError maps a store error to a response: ErrNotFound becomes the
// entity-specific 404, anything else a plain 500.
func StoreError(w http.ResponseWriter, err error, label string) {
	if errors.Is(err, store.ErrNotFound) {
		NotFound(w, label)
		return
	}
	Error(w, http.StatusInternalServerError, err.Error())
}

// Decode parses the request body into v. Unknown fields are allowed;
// entity documents are schema-less.
func Decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
