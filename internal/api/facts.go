package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/funboard/funboard/internal/board"
)

type CreateFactRequest struct {
	Content string `json:"content"`
	// Tags are accepted for UI symmetry but the remote API stores only
	// the text; they would be lost on the post-create reload anyway.
	Tags []string `json:"tags,omitempty"`
}

type CreateFactResponse struct {
	OK bool `json:"ok"`
}

type ListFactsResponse struct {
	Facts   []*board.Fact `json:"facts"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	HasMore bool          `json:"has_more"`
	Tags    []string      `json:"tags,omitempty"`
}

// ListFacts handles GET /api/facts
func (h *Handler) ListFacts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := 1
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	q := board.Query{
		Search:   query.Get("q"),
		Tag:      query.Get("tag"),
		Sort:     board.ParseSortOrder(query.Get("sort")),
		Page:     page,
		PageSize: h.cfg.PageSize,
	}

	view := board.BuildView(h.board.Facts(), q)

	writeJSON(w, http.StatusOK, ListFactsResponse{
		Facts:   view.Facts,
		Total:   view.Total,
		Page:    page,
		HasMore: view.HasMore,
		Tags:    h.board.Tags(),
	})
}

// GetFact handles GET /api/facts/{id}
func (h *Handler) GetFact(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "fact id required")
		return
	}

	fact, ok := h.board.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "fact not found")
		return
	}

	writeJSON(w, http.StatusOK, fact)
}

// CreateFact handles POST /api/facts
func (h *Handler) CreateFact(w http.ResponseWriter, r *http.Request) {
	// Rate limit check
	allowed, retryAfter := h.checkRateLimit(r, "fact", h.cfg.FactRateLimit)
	if !allowed {
		writeRateLimited(w, retryAfter)
		return
	}

	var req CreateFactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	contentLen := utf8.RuneCountInString(req.Content)
	if contentLen == 0 {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	if contentLen > h.cfg.MaxFactLength {
		writeError(w, http.StatusBadRequest, "content too long")
		return
	}

	if err := h.board.CreateAndReload(r.Context(), req.Content); err != nil {
		var creationErr *board.CreationError
		if errors.As(err, &creationErr) {
			writeError(w, http.StatusBadGateway, "failed to publish fact")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to publish fact")
		return
	}

	writeJSON(w, http.StatusCreated, CreateFactResponse{OK: true})
}

// Refresh handles POST /api/refresh. A failed reload leaves the
// collection as it was.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.board.LoadAll(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, "failed to load facts from the fact API")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "total": len(h.board.Facts())})
}

// Report handles POST /api/facts/{id}/report
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "fact id required")
		return
	}

	if !h.board.Report(id) {
		writeError(w, http.StatusNotFound, "fact not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
