package email

import "github.com/go-chi/chi/v5"

// Register mounts the email endpoints on r. The two paths live under
// different top-level prefixes, so this feature registers absolute
// routes instead of returning a subrouter.
func Register(r chi.Router, h *Handler) {
	r.Post("/email/send-invitation", h.SendInvitation)
	r.Get("/email/logs", h.ListLogs)
	r.Post("/smtp/test", h.SMTPTest)
}
