package authapi

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /api/auth.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Get("/me", h.Me)
	r.Put("/me", h.UpdateMe)
	r.Post("/logout", h.Logout)
	return r
}
