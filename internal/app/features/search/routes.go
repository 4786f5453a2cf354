package search

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /api/search.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve)
	return r
}
