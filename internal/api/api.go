package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/funboard/funboard/internal/adminflag"
	"github.com/funboard/funboard/internal/board"
	"github.com/funboard/funboard/internal/config"
	"github.com/funboard/funboard/internal/ratelimit"
)

// Handler holds dependencies for API handlers
type Handler struct {
	board   *board.Store
	admins  adminflag.Store
	limiter ratelimit.Limiter
	cfg     *config.Config
}

// NewHandler creates a new API handler
func NewHandler(b *board.Store, admins adminflag.Store, limiter ratelimit.Limiter, cfg *config.Config) *Handler {
	return &Handler{
		board:   b,
		admins:  admins,
		limiter: limiter,
		cfg:     cfg,
	}
}

// Response helpers

type ErrorResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func writeRateLimited(w http.ResponseWriter, retryAfter int) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
		Error:      "rate limit exceeded",
		RetryAfter: retryAfter,
	})
}

// Request helpers

func (h *Handler) getClientIP(r *http.Request) string {
	// Check X-Forwarded-For first
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	// Check X-Real-IP
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	// Fall back to RemoteAddr
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

func (h *Handler) checkRateLimit(r *http.Request, action string, limit int) (bool, int) {
	key := action + ":" + h.getClientIP(r)

	if !h.limiter.Allow(key, limit, h.cfg.RateLimitWindow) {
		retryAfter := int(h.limiter.RetryAfter(key).Seconds())
		return false, retryAfter
	}

	return true, 0
}

// isAdmin reads the session's persisted admin flag. Advisory gating
// only, not a security boundary.
func (h *Handler) isAdmin() bool {
	return h.admins.IsAdmin()
}
