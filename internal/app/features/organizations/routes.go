package organizations

import "github.com/go-chi/chi/v5"

// Register adds the membership path onto the shared API router. The CRUD
// paths for organization records come from the entities feature; the
// param name matches theirs so the two route sets share the trie node.
func Register(r chi.Router, h *Handler) {
	r.Get("/organizations/{id}/members", h.Members)
}
