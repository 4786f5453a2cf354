package aigen

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /api/ai.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/generate-email", h.GenerateEmail)
	r.Post("/generate-text", h.GenerateText)
	r.Post("/generate-protocol", h.GenerateProtocol)
	r.Post("/generate-invitation", h.GenerateInvitation)
	r.Post("/generate-notice", h.GenerateNotice)
	r.Post("/scan-receipt", h.ScanReceipt)
	r.Post("/scan-bank-statement", h.ScanBankStatement)
	return r
}
