package api

import (
	"net/http"

	"github.com/funboard/funboard/internal/board"
)

type AdminFactsResponse struct {
	Facts    []*board.Fact `json:"facts"`
	Reported []*board.Fact `json:"reported"`
	Hidden   []*board.Fact `json:"hidden"`
}

// RequireAdmin gates moderation handlers on the session's admin flag.
func (h *Handler) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.isAdmin() {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next(w, r)
	}
}

// AdminLogin handles POST /api/admin/login: it sets the persisted flag.
// There is no credential check, mirroring the advisory nature of the gate.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.admins.SetAdmin(true)
	writeJSON(w, http.StatusOK, map[string]bool{"admin": true})
}

// AdminLogout handles POST /api/admin/logout
func (h *Handler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	h.admins.SetAdmin(false)
	writeJSON(w, http.StatusOK, map[string]bool{"admin": false})
}

// AdminListFacts handles GET /api/admin/facts: the moderation view with
// hidden facts included and the reported/hidden queues broken out.
func (h *Handler) AdminListFacts(w http.ResponseWriter, r *http.Request) {
	facts := h.board.Facts()

	var reported, hidden []*board.Fact
	for _, f := range facts {
		if f.Reported {
			reported = append(reported, f)
		}
		if f.Hidden {
			hidden = append(hidden, f)
		}
	}

	writeJSON(w, http.StatusOK, AdminFactsResponse{
		Facts:    facts,
		Reported: reported,
		Hidden:   hidden,
	})
}

// HideFact handles POST /api/admin/facts/{id}/hide. Hiding also resolves
// any open report on the fact.
func (h *Handler) HideFact(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.board.Hide)
}

// UnhideFact handles POST /api/admin/facts/{id}/unhide
func (h *Handler) UnhideFact(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.board.Unhide)
}

// DeleteFact handles DELETE /api/admin/facts/{id}. Deletes are terminal.
func (h *Handler) DeleteFact(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.board.Delete)
}

func (h *Handler) moderate(w http.ResponseWriter, r *http.Request, op func(string) bool) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "fact id required")
		return
	}

	if !op(id) {
		writeError(w, http.StatusNotFound, "fact not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
