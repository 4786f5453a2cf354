package pdf

import "github.com/go-chi/chi/v5"

// Routes returns the router for the PDF endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/generate-invitation", h.GenerateInvitation)
	r.Post("/generate-protocol", h.GenerateProtocol)
	return r
}
