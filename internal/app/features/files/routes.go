package files

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /api/files.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/upload", h.Upload)
	return r
}
