package board

import (
	"sort"
	"strings"
)

// DefaultPageSize matches the board's load-more step.
const DefaultPageSize = 5

// Query is the ephemeral filter state behind a derived view.
type Query struct {
	Search   string
	Tag      string
	Sort     SortOrder
	Page     int
	PageSize int
}

// View is a filtered, sorted, paginated projection of the collection.
type View struct {
	Facts   []*Fact
	Total   int
	HasMore bool
}

// BuildView derives a view from a fact snapshot. It is a pure function:
// hidden facts are excluded, then the search text is matched
// case-insensitively against title, content and tags, then the tag filter
// applies exactly, then the sort mode orders the result, and finally the
// page cursor truncates it. Total counts the facts before truncation.
func BuildView(facts []*Fact, q Query) View {
	filtered := make([]*Fact, 0, len(facts))
	search := strings.ToLower(q.Search)

	for _, f := range facts {
		if f.Hidden {
			continue
		}
		if search != "" && !matchesSearch(f, search) {
			continue
		}
		if q.Tag != "" && !f.HasTag(q.Tag) {
			continue
		}
		filtered = append(filtered, f)
	}

	sortFacts(filtered, q.Sort)

	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	limit := page * size
	hasMore := len(filtered) > limit
	total := len(filtered)
	if hasMore {
		filtered = filtered[:limit]
	}

	return View{Facts: filtered, Total: total, HasMore: hasMore}
}

func matchesSearch(f *Fact, search string) bool {
	if strings.Contains(strings.ToLower(f.Title), search) {
		return true
	}
	if strings.Contains(strings.ToLower(f.Content), search) {
		return true
	}
	for _, t := range f.Tags {
		if strings.Contains(strings.ToLower(t), search) {
			return true
		}
	}
	return false
}

func sortFacts(facts []*Fact, order SortOrder) {
	switch order {
	case SortPopular:
		sort.SliceStable(facts, func(i, j int) bool {
			return facts[i].Funny-facts[i].Dislikes > facts[j].Funny-facts[j].Dislikes
		})
	case SortControversial:
		// Raw engagement volume, not a controversy ratio. The mode is
		// named for the UI label.
		sort.SliceStable(facts, func(i, j int) bool {
			return facts[i].ReactionTotal() > facts[j].ReactionTotal()
		})
	default: // SortRecent
		sort.SliceStable(facts, func(i, j int) bool {
			return facts[i].CreatedAt.After(facts[j].CreatedAt)
		})
	}
}
