package api

import (
	"net/http"
	"time"

	"github.com/funboard/funboard/internal/board"
)

type LeaderboardResponse struct {
	Window     board.Window  `json:"window"`
	TopFunny   []*board.Fact `json:"top_funny"`
	TopEngaged []*board.Fact `json:"top_engaged"`
}

// Leaderboard handles GET /api/leaderboard. The two top lists are ranked
// independently from the same window.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	window := board.ParseWindow(r.URL.Query().Get("window"))

	standings := board.Leaderboard(h.board.Facts(), window, time.Now().UTC(), h.cfg.LeaderboardSize)

	writeJSON(w, http.StatusOK, LeaderboardResponse{
		Window:     window,
		TopFunny:   standings.TopFunny,
		TopEngaged: standings.TopEngaged,
	})
}
