package api

import (
	"encoding/json"
	"net/http"

	"github.com/funboard/funboard/internal/board"
)

type ReactionRequest struct {
	Reaction string `json:"reaction"` // "funny", "meh" or "dislike"
}

// ToggleReaction handles POST /api/facts/{id}/reactions. Reposting the
// active reaction clears it; posting a different one moves the count.
func (h *Handler) ToggleReaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "fact id required")
		return
	}

	var req ReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	reaction, ok := board.ParseReaction(req.Reaction)
	if !ok {
		writeError(w, http.StatusBadRequest, "reaction must be 'funny', 'meh' or 'dislike'")
		return
	}

	fact, ok := h.board.ToggleReaction(id, reaction)
	if !ok {
		writeError(w, http.StatusNotFound, "fact not found")
		return
	}

	writeJSON(w, http.StatusOK, fact)
}
