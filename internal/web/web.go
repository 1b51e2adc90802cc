package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/funboard/funboard/internal/adminflag"
	"github.com/funboard/funboard/internal/board"
	"github.com/funboard/funboard/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler holds dependencies for web handlers
type Handler struct {
	board     *board.Store
	admins    adminflag.Store
	cfg       *config.Config
	templates map[string]*template.Template
}

// NewHandler creates a new web handler
func NewHandler(b *board.Store, admins adminflag.Store, cfg *config.Config) (*Handler, error) {
	templates := make(map[string]*template.Template)

	// Parse base template
	base := template.Must(template.ParseFS(templateFS, "templates/base.html"))

	// Parse each page template with its own clone of base
	pages := []string{"home.html", "fact.html", "submit.html", "leaderboard.html", "admin.html"}
	for _, page := range pages {
		// Clone base for each page to avoid block conflicts
		tmpl := template.Must(base.Clone())
		template.Must(tmpl.ParseFS(templateFS, "templates/"+page))
		templates[page] = tmpl
	}

	return &Handler{
		board:     b,
		admins:    admins,
		cfg:       cfg,
		templates: templates,
	}, nil
}

// HomeData is the data for the home page template
type HomeData struct {
	Facts    []*board.Fact
	Tags     []string
	Search   string
	Tag      string
	Sort     string
	Page     int
	NextPage int
	HasMore  bool
	BaseURL  string
}

// FactData is the data for the fact detail page template
type FactData struct {
	Fact    *board.Fact
	BaseURL string
}

// SubmitData is the data for the submit page template
type SubmitData struct {
	BaseURL string
	Error   string
}

// LeaderboardData is the data for the leaderboard page template
type LeaderboardData struct {
	Window     string
	TopFunny   []*board.Fact
	TopEngaged []*board.Fact
	BaseURL    string
}

// AdminData is the data for the admin panel template
type AdminData struct {
	Facts    []*board.Fact
	Reported []*board.Fact
	Hidden   []*board.Fact
	BaseURL  string
}

// Home handles GET /
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	query := r.URL.Query()
	sortStr := query.Get("sort")
	page := 1
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	q := board.Query{
		Search:   query.Get("q"),
		Tag:      query.Get("tag"),
		Sort:     board.ParseSortOrder(sortStr),
		Page:     page,
		PageSize: h.cfg.PageSize,
	}

	view := board.BuildView(h.board.Facts(), q)

	// Content negotiation
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{
			"facts":    view.Facts,
			"total":    view.Total,
			"has_more": view.HasMore,
			"sort":     string(q.Sort),
		})
		return
	}

	data := HomeData{
		Facts:    view.Facts,
		Tags:     h.board.Tags(),
		Search:   q.Search,
		Tag:      q.Tag,
		Sort:     string(q.Sort),
		Page:     page,
		NextPage: page + 1,
		HasMore:  view.HasMore,
		BaseURL:  h.cfg.BaseURL,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates["home.html"].ExecuteTemplate(w, "base", data); err != nil {
		log.Printf("Template error: %v", err)
	}
}

// Fact handles GET /fact/{id}. It reads the session collection, not the
// remote API, so local reactions and comments stay visible.
func (h *Handler) Fact(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	fact, ok := h.board.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	// Content negotiation
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"fact": fact})
		return
	}

	data := FactData{
		Fact:    fact,
		BaseURL: h.cfg.BaseURL,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates["fact.html"].ExecuteTemplate(w, "base", data); err != nil {
		log.Printf("Template error: %v", err)
	}
}

// Submit handles GET /submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	// Content negotiation - return form schema for JSON
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{
			"fields": map[string]any{
				"content": map[string]any{
					"type":      "string",
					"required":  true,
					"minLength": 1,
					"maxLength": h.cfg.MaxFactLength,
				},
			},
		})
		return
	}

	data := SubmitData{
		BaseURL: h.cfg.BaseURL,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates["submit.html"].ExecuteTemplate(w, "base", data); err != nil {
		log.Printf("Template error: %v", err)
	}
}

// Leaderboard handles GET /leaderboard
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	window := board.ParseWindow(r.URL.Query().Get("window"))
	standings := board.Leaderboard(h.board.Facts(), window, time.Now().UTC(), h.cfg.LeaderboardSize)

	// Content negotiation
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{
			"window":      string(window),
			"top_funny":   standings.TopFunny,
			"top_engaged": standings.TopEngaged,
		})
		return
	}

	data := LeaderboardData{
		Window:     string(window),
		TopFunny:   standings.TopFunny,
		TopEngaged: standings.TopEngaged,
		BaseURL:    h.cfg.BaseURL,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates["leaderboard.html"].ExecuteTemplate(w, "base", data); err != nil {
		log.Printf("Template error: %v", err)
	}
}

// Admin handles GET /admin. Without the admin flag it answers 403; the
// flag is advisory UI gating, not authentication.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	if !h.admins.IsAdmin() {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

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

	// Content negotiation
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{
			"facts":    facts,
			"reported": reported,
			"hidden":   hidden,
		})
		return
	}

	data := AdminData{
		Facts:    facts,
		Reported: reported,
		Hidden:   hidden,
		BaseURL:  h.cfg.BaseURL,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates["admin.html"].ExecuteTemplate(w, "base", data); err != nil {
		log.Printf("Template error: %v", err)
	}
}

// Helper functions

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return accept == "application/json" || r.URL.Query().Get("format") == "json"
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// FormatReactions formats a reaction count for display
func FormatReactions(count int) string {
	if count == 1 {
		return "1 reaction"
	}
	return strconv.Itoa(count) + " reactions"
}
