package board

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Remote is the surface of the fact API the store depends on. It is
// satisfied by factapi.Client and faked in tests.
type Remote interface {
	ListFacts(ctx context.Context) ([]*Fact, error)
	CreateFact(ctx context.Context, content string) error
}

// CreationError wraps the failure of a create-then-reload cycle. The
// collection is left unchanged when it is returned.
type CreationError struct {
	Err error
}

func (e *CreationError) Error() string {
	return "create fact: " + e.Err.Error()
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

// Store holds the session's fact collection. Facts come from the remote
// collaborator on load; reactions, comments, tags and moderation are
// local-only session state that is never written back.
//
// LoadAll replaces the collection wholesale, so any local mutation applied
// between the start and the finish of a reload is lost. That is the
// intended last-reload-wins behavior for a single-user session.
type Store struct {
	remote Remote

	mu    sync.RWMutex
	facts []*Fact
}

func NewStore(remote Remote) *Store {
	return &Store{remote: remote}
}

// LoadAll replaces the collection with a fresh fetch. On error the
// previous collection is kept.
func (s *Store) LoadAll(ctx context.Context) error {
	facts, err := s.remote.ListFacts(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.facts = facts
	s.mu.Unlock()
	return nil
}

// CreateAndReload publishes a fact to the remote collaborator and then
// reloads the collection, since the create response carries neither the
// assigned id nor the new ordering. Either step failing yields a
// CreationError and leaves the collection unchanged.
func (s *Store) CreateAndReload(ctx context.Context, content string) error {
	if err := s.remote.CreateFact(ctx, content); err != nil {
		return &CreationError{Err: err}
	}
	if err := s.LoadAll(ctx); err != nil {
		return &CreationError{Err: err}
	}
	return nil
}

// ToggleReaction applies the user's reaction to a fact. Clicking the
// active reaction clears it; switching reactions moves the count from the
// old kind to the new kind. Returns the updated fact, or false if the id
// is unknown.
func (s *Store) ToggleReaction(id string, r Reaction) (*Fact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.find(id)
	if f == nil {
		return nil, false
	}

	wasFunny := f.UserReaction == ReactionFunny
	wasMeh := f.UserReaction == ReactionMeh
	wasDisliked := f.UserReaction == ReactionDislike

	f.Funny += -boolInt(wasFunny) + boolInt(r == ReactionFunny && !wasFunny)
	f.Meh += -boolInt(wasMeh) + boolInt(r == ReactionMeh && !wasMeh)
	f.Dislikes += -boolInt(wasDisliked) + boolInt(r == ReactionDislike && !wasDisliked)

	if r == f.UserReaction {
		f.UserReaction = ReactionNone
	} else {
		f.UserReaction = r
	}

	return f.clone(), true
}

// AddComment appends a comment to a fact. The store only requires
// non-empty text; length limits are the caller's concern.
func (s *Store) AddComment(id, content string) (*Comment, bool) {
	if content == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.find(id)
	if f == nil {
		return nil, false
	}

	c := &Comment{
		ID:        uuid.New().String(),
		FactID:    id,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	f.Comments = append(f.Comments, c)
	return c, true
}

// Report flags a fact for moderator attention.
func (s *Store) Report(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.find(id)
	if f == nil {
		return false
	}
	f.Reported = true
	return true
}

// Hide removes a fact from public views. Hiding resolves any open report.
func (s *Store) Hide(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.find(id)
	if f == nil {
		return false
	}
	f.Hidden = true
	f.Reported = false
	return true
}

// Unhide restores a hidden fact to public views.
func (s *Store) Unhide(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.find(id)
	if f == nil {
		return false
	}
	f.Hidden = false
	return true
}

// Delete removes a fact from the collection entirely. There is no way
// back from a delete short of a reload.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.facts {
		if f.ID == id {
			s.facts = append(s.facts[:i], s.facts[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns a copy of the fact with the given id.
func (s *Store) Get(id string) (*Fact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f := s.find(id)
	if f == nil {
		return nil, false
	}
	return f.clone(), true
}

// Facts returns a snapshot copy of the collection in fetch order.
func (s *Store) Facts() []*Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Fact, len(s.facts))
	for i, f := range s.facts {
		out[i] = f.clone()
	}
	return out
}

// Tags returns the sorted distinct tags across visible facts, for the
// filter bar.
func (s *Store) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var tags []string
	for _, f := range s.facts {
		if f.Hidden {
			continue
		}
		for _, t := range f.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

func (s *Store) find(id string) *Fact {
	for _, f := range s.facts {
		if f.ID == id {
			return f
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
