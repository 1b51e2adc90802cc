package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/funboard/funboard/internal/adminflag"
	"github.com/funboard/funboard/internal/board"
	"github.com/funboard/funboard/internal/config"
	"github.com/funboard/funboard/internal/ratelimit"
)

// stubRemote scripts the fact API collaborator.
type stubRemote struct {
	facts     []*board.Fact
	listErr   error
	createErr error
	created   []string
}

func (r *stubRemote) ListFacts(ctx context.Context) ([]*board.Fact, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*board.Fact, len(r.facts))
	for i, f := range r.facts {
		c := *f
		out[i] = &c
	}
	return out, nil
}

func (r *stubRemote) CreateFact(ctx context.Context, content string) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, content)
	return nil
}

type testServer struct {
	handler *Handler
	remote  *stubRemote
	admins  *adminflag.Memory
}

func setupTestServer(t *testing.T, facts ...*board.Fact) *testServer {
	t.Helper()

	remote := &stubRemote{facts: facts}
	store := board.NewStore(remote)
	if err := store.LoadAll(context.Background()); err != nil {
		t.Fatalf("initial load failed: %v", err)
	}

	cfg := &config.Config{
		PageSize:         5,
		LeaderboardSize:  10,
		MaxFactLength:    500,
		MaxCommentLength: 500,
		FactRateLimit:    100,
		CommentRateLimit: 100,
		RateLimitWindow:  time.Hour,
	}

	admins := &adminflag.Memory{}
	handler := NewHandler(store, admins, ratelimit.NewMemoryLimiter(), cfg)

	return &testServer{handler: handler, remote: remote, admins: admins}
}

func boardFact(id string) *board.Fact {
	return &board.Fact{
		ID:        id,
		Title:     "Fun Fact #" + id,
		Content:   "content " + id,
		CreatedAt: time.Now().UTC(),
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestListFactsAPI(t *testing.T) {
	ts := setupTestServer(t, boardFact("1"), boardFact("2"), boardFact("3"))

	req := httptest.NewRequest(http.MethodGet, "/api/facts", nil)
	rec := httptest.NewRecorder()
	ts.handler.ListFacts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp ListFactsResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Facts) != 3 {
		t.Errorf("len(Facts) = %d, want 3", len(resp.Facts))
	}
	if resp.Total != 3 {
		t.Errorf("Total = %d, want 3", resp.Total)
	}
	if resp.HasMore {
		t.Error("HasMore should be false for 3 facts at page size 5")
	}
}

func TestListFactsAPIFilters(t *testing.T) {
	pieuvre := boardFact("1")
	pieuvre.Content = "Les pieuvres ont trois cœurs"
	other := boardFact("2")
	other.Content = "Honey never spoils"
	ts := setupTestServer(t, pieuvre, other)

	req := httptest.NewRequest(http.MethodGet, "/api/facts?q=pieuvre", nil)
	rec := httptest.NewRecorder()
	ts.handler.ListFacts(rec, req)

	var resp ListFactsResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Facts) != 1 || resp.Facts[0].ID != "1" {
		t.Errorf("search should match only the pieuvre fact, got %d facts", len(resp.Facts))
	}
}

func TestListFactsAPIPagination(t *testing.T) {
	var facts []*board.Fact
	for i := 0; i < 8; i++ {
		f := boardFact(string(rune('a' + i)))
		f.CreatedAt = time.Now().UTC().Add(-time.Duration(i) * time.Hour)
		facts = append(facts, f)
	}
	ts := setupTestServer(t, facts...)

	req := httptest.NewRequest(http.MethodGet, "/api/facts?page=1", nil)
	rec := httptest.NewRecorder()
	ts.handler.ListFacts(rec, req)

	var resp ListFactsResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Facts) != 5 {
		t.Errorf("len(Facts) = %d, want 5", len(resp.Facts))
	}
	if !resp.HasMore {
		t.Error("HasMore should be true with 8 facts at page size 5")
	}
}

func TestGetFactAPI(t *testing.T) {
	ts := setupTestServer(t, boardFact("1"))

	req := httptest.NewRequest(http.MethodGet, "/api/facts/1", nil)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	ts.handler.GetFact(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/facts/missing", nil)
	req.SetPathValue("id", "missing")
	rec = httptest.NewRecorder()
	ts.handler.GetFact(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown id", rec.Code)
	}
}

func TestCreateFactAPI(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{
			name:       "valid fact",
			body:       map[string]any{"content": "Octopi have three hearts"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "empty content",
			body:       map[string]any{"content": ""},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "tags accepted",
			body:       map[string]any{"content": "Tagged fact", "tags": []string{"animals"}},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServer(t)
			rec := postJSON(t, ts.handler.CreateFact, "/api/facts", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body = %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestCreateFactAPITooLong(t *testing.T) {
	ts := setupTestServer(t)

	long := make([]rune, 501)
	for i := range long {
		long[i] = 'x'
	}
	rec := postJSON(t, ts.handler.CreateFact, "/api/facts", map[string]any{"content": string(long)})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for oversized content", rec.Code)
	}
}

func TestCreateFactAPIReloadsCollection(t *testing.T) {
	ts := setupTestServer(t, boardFact("1"))

	// The reload after create sees the remote's new state, so the
	// collection becomes exactly that, not a merge.
	ts.remote.facts = []*board.Fact{boardFact("2"), boardFact("1")}
	rec := postJSON(t, ts.handler.CreateFact, "/api/facts", map[string]any{"content": "new fact"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/facts", nil)
	listRec := httptest.NewRecorder()
	ts.handler.ListFacts(listRec, req)

	var resp ListFactsResponse
	json.Unmarshal(listRec.Body.Bytes(), &resp)
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2 after reload", resp.Total)
	}
}

func TestCreateFactAPIRemoteFailure(t *testing.T) {
	ts := setupTestServer(t, boardFact("1"))
	ts.remote.createErr = errors.New("remote down")

	rec := postJSON(t, ts.handler.CreateFact, "/api/facts", map[string]any{"content": "doomed"})
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502 on remote failure", rec.Code)
	}

	// The collection is untouched.
	req := httptest.NewRequest(http.MethodGet, "/api/facts", nil)
	listRec := httptest.NewRecorder()
	ts.handler.ListFacts(listRec, req)

	var resp ListFactsResponse
	json.Unmarshal(listRec.Body.Bytes(), &resp)
	if resp.Total != 1 {
		t.Errorf("Total = %d, want 1 (unchanged)", resp.Total)
	}
}

func TestCreateFactAPIRateLimit(t *testing.T) {
	ts := setupTestServer(t)
	ts.handler.cfg.FactRateLimit = 1

	rec := postJSON(t, ts.handler.CreateFact, "/api/facts", map[string]any{"content": "first"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	rec = postJSON(t, ts.handler.CreateFact, "/api/facts", map[string]any{"content": "second"})
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429 once the limit is hit", rec.Code)
	}
}

func TestToggleReactionAPI(t *testing.T) {
	f := boardFact("1")
	f.Funny = 2
	ts := setupTestServer(t, f)

	toggle := func() *board.Fact {
		raw, _ := json.Marshal(map[string]string{"reaction": "funny"})
		req := httptest.NewRequest(http.MethodPost, "/api/facts/1/reactions", bytes.NewReader(raw))
		req.SetPathValue("id", "1")
		rec := httptest.NewRecorder()
		ts.handler.ToggleReaction(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var got board.Fact
		json.Unmarshal(rec.Body.Bytes(), &got)
		return &got
	}

	got := toggle()
	if got.Funny != 3 || got.UserReaction != board.ReactionFunny {
		t.Errorf("after toggle: funny = %d, reaction = %q; want 3, funny", got.Funny, got.UserReaction)
	}

	got = toggle()
	if got.Funny != 2 || got.UserReaction != board.ReactionNone {
		t.Errorf("after re-toggle: funny = %d, reaction = %q; want 2, none", got.Funny, got.UserReaction)
	}
}

func TestToggleReactionAPIValidation(t *testing.T) {
	ts := setupTestServer(t, boardFact("1"))

	raw, _ := json.Marshal(map[string]string{"reaction": "angry"})
	req := httptest.NewRequest(http.MethodPost, "/api/facts/1/reactions", bytes.NewReader(raw))
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	ts.handler.ToggleReaction(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown reaction", rec.Code)
	}

	raw, _ = json.Marshal(map[string]string{"reaction": "funny"})
	req = httptest.NewRequest(http.MethodPost, "/api/facts/missing/reactions", bytes.NewReader(raw))
	req.SetPathValue("id", "missing")
	rec = httptest.NewRecorder()
	ts.handler.ToggleReaction(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown fact", rec.Code)
	}
}

func TestCreateCommentAPI(t *testing.T) {
	ts := setupTestServer(t, boardFact("1"))

	raw, _ := json.Marshal(map[string]string{"content": "three hearts!"})
	req := httptest.NewRequest(http.MethodPost, "/api/facts/1/comments", bytes.NewReader(raw))
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	ts.handler.CreateComment(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body = %s", rec.Code, rec.Body.String())
	}

	var comment board.Comment
	json.Unmarshal(rec.Body.Bytes(), &comment)
	if comment.ID == "" || comment.FactID != "1" {
		t.Errorf("comment = %+v, want fresh id bound to fact 1", comment)
	}
}

func TestCreateCommentAPIValidation(t *testing.T) {
	ts := setupTestServer(t, boardFact("1"))

	tests := []struct {
		name       string
		id         string
		content    string
		wantStatus int
	}{
		{"empty content", "1", "", http.StatusBadRequest},
		{"unknown fact", "missing", "hello", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, _ := json.Marshal(map[string]string{"content": tt.content})
			req := httptest.NewRequest(http.MethodPost, "/api/facts/"+tt.id+"/comments", bytes.NewReader(raw))
			req.SetPathValue("id", tt.id)
			rec := httptest.NewRecorder()
			ts.handler.CreateComment(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestReportAPI(t *testing.T) {
	ts := setupTestServer(t, boardFact("1"))

	req := httptest.NewRequest(http.MethodPost, "/api/facts/1/report", nil)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	ts.handler.Report(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAdminGate(t *testing.T) {
	ts := setupTestServer(t, boardFact("1"))

	handler := ts.handler.RequireAdmin(ts.handler.AdminListFacts)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/facts", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 without the admin flag", rec.Code)
	}

	ts.admins.SetAdmin(true)
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with the admin flag", rec.Code)
	}
}

func TestAdminLoginLogout(t *testing.T) {
	ts := setupTestServer(t)

	rec := httptest.NewRecorder()
	ts.handler.AdminLogin(rec, httptest.NewRequest(http.MethodPost, "/api/admin/login", nil))
	if !ts.admins.IsAdmin() {
		t.Error("login should set the persisted flag")
	}

	rec = httptest.NewRecorder()
	ts.handler.AdminLogout(rec, httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil))
	if ts.admins.IsAdmin() {
		t.Error("logout should clear the persisted flag")
	}
}

func TestHideUnhideDeleteAPI(t *testing.T) {
	ts := setupTestServer(t, boardFact("1"), boardFact("2"))

	do := func(handler http.HandlerFunc, method, target, id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, nil)
		req.SetPathValue("id", id)
		rec := httptest.NewRecorder()
		handler(rec, req)
		return rec
	}

	if rec := do(ts.handler.HideFact, http.MethodPost, "/api/admin/facts/1/hide", "1"); rec.Code != http.StatusOK {
		t.Fatalf("hide status = %d, want 200", rec.Code)
	}

	// Hidden facts drop out of the public listing.
	req := httptest.NewRequest(http.MethodGet, "/api/facts", nil)
	listRec := httptest.NewRecorder()
	ts.handler.ListFacts(listRec, req)
	var resp ListFactsResponse
	json.Unmarshal(listRec.Body.Bytes(), &resp)
	if resp.Total != 1 {
		t.Errorf("Total = %d, want 1 with one fact hidden", resp.Total)
	}

	if rec := do(ts.handler.UnhideFact, http.MethodPost, "/api/admin/facts/1/unhide", "1"); rec.Code != http.StatusOK {
		t.Fatalf("unhide status = %d, want 200", rec.Code)
	}

	if rec := do(ts.handler.DeleteFact, http.MethodDelete, "/api/admin/facts/2", "2"); rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}
	if rec := do(ts.handler.DeleteFact, http.MethodDelete, "/api/admin/facts/2", "2"); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestAdminListFactsIncludesQueues(t *testing.T) {
	reported := boardFact("1")
	reported.Reported = true
	hidden := boardFact("2")
	hidden.Hidden = true
	ts := setupTestServer(t, reported, hidden, boardFact("3"))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/facts", nil)
	rec := httptest.NewRecorder()
	ts.handler.AdminListFacts(rec, req)

	var resp AdminFactsResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Facts) != 3 {
		t.Errorf("len(Facts) = %d, want 3 (hidden included)", len(resp.Facts))
	}
	if len(resp.Reported) != 1 || resp.Reported[0].ID != "1" {
		t.Errorf("Reported = %d entries, want fact 1", len(resp.Reported))
	}
	if len(resp.Hidden) != 1 || resp.Hidden[0].ID != "2" {
		t.Errorf("Hidden = %d entries, want fact 2", len(resp.Hidden))
	}
}

func TestLeaderboardAPI(t *testing.T) {
	funny := boardFact("1")
	funny.Funny = 10
	stale := boardFact("2")
	stale.Funny = 100
	stale.CreatedAt = time.Now().UTC().Add(-10 * 24 * time.Hour)
	ts := setupTestServer(t, funny, stale)

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard?window=week", nil)
	rec := httptest.NewRecorder()
	ts.handler.Leaderboard(rec, req)

	var resp LeaderboardResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Window != board.WindowWeek {
		t.Errorf("Window = %q, want week", resp.Window)
	}
	if len(resp.TopFunny) != 1 || resp.TopFunny[0].ID != "1" {
		t.Errorf("week window should exclude the stale fact, got %d entries", len(resp.TopFunny))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/leaderboard?window=alltime", nil)
	rec = httptest.NewRecorder()
	ts.handler.Leaderboard(rec, req)

	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.TopFunny) != 2 || resp.TopFunny[0].ID != "2" {
		t.Errorf("alltime window should rank the stale fact first")
	}
}

func TestRefreshAPI(t *testing.T) {
	ts := setupTestServer(t, boardFact("1"))

	ts.remote.facts = []*board.Fact{boardFact("1"), boardFact("2")}
	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	rec := httptest.NewRecorder()
	ts.handler.Refresh(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	// A failed refresh reports the outage and keeps the collection.
	ts.remote.listErr = errors.New("remote down")
	rec = httptest.NewRecorder()
	ts.handler.Refresh(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502 on remote failure", rec.Code)
	}

	listRec := httptest.NewRecorder()
	ts.handler.ListFacts(listRec, httptest.NewRequest(http.MethodGet, "/api/facts", nil))
	var resp ListFactsResponse
	json.Unmarshal(listRec.Body.Bytes(), &resp)
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2 (previous collection kept)", resp.Total)
	}
}
