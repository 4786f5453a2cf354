package entities

import "github.com/go-chi/chi/v5"

// Register adds the five CRUD endpoints for every entity in the
// Definitions table onto r. Other features (organizations membership) hang
// additional paths off the same collections, so registration happens on a
// shared router rather than a private mount.
func Register(r chi.Router, h *Handler) {
	for _, d := range Definitions {
		r.Route("/"+d.Collection, func(cr chi.Router) {
			cr.Get("/", h.List(d))
			cr.Post("/", h.Create(d))
			cr.Get("/{id}", h.Get(d))
			cr.Put("/{id}", h.Update(d))
			cr.Delete("/{id}", h.Delete(d))
		})
	}
}

// Routes returns a standalone router carrying all CRUD endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	Register(r, h)
	return r
}
