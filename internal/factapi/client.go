// Package factapi talks to the remote fun-fact API. The API stores only
// fact text behind a numeric id; everything else on a board.Fact is
// session state initialized here.
package factapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/funboard/funboard/internal/board"
	"github.com/google/uuid"
)

const DefaultBaseURL = "https://fun-fact-api-rsu4.onrender.com/funfact"

// FetchError is a transport or parse failure against the remote API.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("factapi: %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client is the fact API adapter.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Ensure Client satisfies the store's remote surface.
var _ board.Remote = (*Client)(nil)

// ListFacts fetches and normalizes every fact. A response that is valid
// JSON but not an array (the API answers errors with an object) yields an
// empty list, not an error. Records are ordered by descending numeric id,
// independent of response order.
func (c *Client) ListFacts(ctx context.Context) ([]*board.Fact, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		return nil, &FetchError{Op: "list", Err: err}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &FetchError{Op: "list", Err: err}
	}
	defer resp.Body.Close()

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &FetchError{Op: "list", Err: err}
	}

	records, ok := payload.([]any)
	if !ok {
		return []*board.Fact{}, nil
	}

	sort.SliceStable(records, func(i, j int) bool {
		return numericID(records[i]) > numericID(records[j])
	})

	now := time.Now().UTC()
	facts := make([]*board.Fact, 0, len(records))
	for _, r := range records {
		rec, ok := r.(map[string]any)
		if !ok {
			continue
		}
		facts = append(facts, normalizeRecord(rec, now))
	}
	return facts, nil
}

// GetFactByID fetches the list and picks out one fact. A missing id is
// (nil, nil), not an error.
func (c *Client) GetFactByID(ctx context.Context, id string) (*board.Fact, error) {
	facts, err := c.ListFacts(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range facts {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, nil
}

// CreateFact publishes new fact text. The response carries nothing the
// client can use, so callers observe the new fact by reloading the list.
func (c *Client) CreateFact(ctx context.Context, content string) error {
	body, err := json.Marshal(map[string]string{"funfact": content})
	if err != nil {
		return &FetchError{Op: "create", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return &FetchError{Op: "create", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &FetchError{Op: "create", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{Op: "create", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return nil
}

// normalizeRecord maps one remote record onto a session fact. Field
// lookup order: "Id" then "id" for the identifier, "FunFact" then
// "funfact" for the text; the API is not consistent about casing. A
// record without an identifier gets a generated one and a bare title.
func normalizeRecord(rec map[string]any, now time.Time) *board.Fact {
	id := lookupString(rec, "Id", "id")
	title := "Fun Fact"
	if id != "" {
		title = "Fun Fact #" + id
	} else {
		id = uuid.New().String()
	}

	return &board.Fact{
		ID:        id,
		Title:     title,
		Content:   lookupString(rec, "FunFact", "funfact"),
		CreatedAt: now,
		Comments:  []*board.Comment{},
		Tags:      []string{},
	}
}

func lookupString(rec map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			if s, ok := stringValue(v); ok {
				return s
			}
		}
	}
	return ""
}

func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	}
	return "", false
}

func numericID(record any) float64 {
	rec, ok := record.(map[string]any)
	if !ok {
		return 0
	}
	for _, k := range []string{"Id", "id"} {
		v, ok := rec[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t
		case string:
			if n, err := strconv.ParseFloat(t, 64); err == nil {
				return n
			}
		}
	}
	return 0
}
