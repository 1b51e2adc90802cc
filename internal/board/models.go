package board

import "time"

// Reaction is the current user's sentiment on a fact. The zero value means
// no reaction.
type Reaction string

const (
	ReactionNone    Reaction = ""
	ReactionFunny   Reaction = "funny"
	ReactionMeh     Reaction = "meh"
	ReactionDislike Reaction = "dislike"
)

// ParseReaction maps a wire string to a reaction kind.
func ParseReaction(s string) (Reaction, bool) {
	switch Reaction(s) {
	case ReactionFunny, ReactionMeh, ReactionDislike:
		return Reaction(s), true
	}
	return ReactionNone, false
}

type Fact struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	CreatedAt    time.Time  `json:"created_at"`
	Funny        int        `json:"funny"`
	Meh          int        `json:"meh"`
	Dislikes     int        `json:"dislikes"`
	Comments     []*Comment `json:"comments"`
	Tags         []string   `json:"tags,omitempty"`
	Reported     bool       `json:"reported"`
	Hidden       bool       `json:"hidden"`
	UserReaction Reaction   `json:"user_reaction,omitempty"`
}

type Comment struct {
	ID        string    `json:"id"`
	FactID    string    `json:"fact_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ReactionTotal is the combined reaction volume across all three kinds.
func (f *Fact) ReactionTotal() int {
	return f.Funny + f.Meh + f.Dislikes
}

// Engagement is reactions plus comments, the metric behind the
// interactions leaderboard.
func (f *Fact) Engagement() int {
	return f.ReactionTotal() + len(f.Comments)
}

// HasTag reports whether the fact carries the exact tag.
func (f *Fact) HasTag(tag string) bool {
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// clone copies the fact so callers outside the store never alias the
// store's own state. Comments are immutable once created, so sharing
// their pointers is fine.
func (f *Fact) clone() *Fact {
	c := *f
	if f.Comments != nil {
		c.Comments = append([]*Comment(nil), f.Comments...)
	}
	if f.Tags != nil {
		c.Tags = append([]string(nil), f.Tags...)
	}
	return &c
}

// SortOrder selects the ordering of the derived view.
type SortOrder string

const (
	SortRecent        SortOrder = "recent"
	SortPopular       SortOrder = "popular"
	SortControversial SortOrder = "controversial"
)

// ParseSortOrder maps a query value to a sort order. "all", the empty
// string, and anything unknown fall back to recent.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortPopular, SortControversial, SortRecent:
		return SortOrder(s)
	}
	return SortRecent
}

// Window is the leaderboard time window.
type Window string

const (
	WindowWeek    Window = "week"
	WindowAllTime Window = "alltime"
)

// ParseWindow defaults to the weekly window, the leaderboard's initial tab.
func ParseWindow(s string) Window {
	if Window(s) == WindowAllTime {
		return WindowAllTime
	}
	return WindowWeek
}
