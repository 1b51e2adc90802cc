package api

import (
	"encoding/json"
	"net/http"
	"unicode/utf8"
)

type CreateCommentRequest struct {
	Content string `json:"content"`
}

// CreateComment handles POST /api/facts/{id}/comments
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	// Rate limit check
	allowed, retryAfter := h.checkRateLimit(r, "comment", h.cfg.CommentRateLimit)
	if !allowed {
		writeRateLimited(w, retryAfter)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "fact id required")
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	contentLen := utf8.RuneCountInString(req.Content)
	if contentLen == 0 {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	if contentLen > h.cfg.MaxCommentLength {
		writeError(w, http.StatusBadRequest, "content too long")
		return
	}

	comment, ok := h.board.AddComment(id, req.Content)
	if !ok {
		writeError(w, http.StatusNotFound, "fact not found")
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}
