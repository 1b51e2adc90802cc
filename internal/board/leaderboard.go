package board

import (
	"sort"
	"time"
)

// DefaultLeaderboardSize caps each ranked list.
const DefaultLeaderboardSize = 10

// Standings holds the two independently ranked top lists. A fact may
// appear in both, one, or neither.
type Standings struct {
	TopFunny   []*Fact
	TopEngaged []*Fact
}

// Leaderboard ranks a fact snapshot for the given window. Hidden facts
// never rank; the week window keeps facts created within the trailing
// seven days of now, inclusive. A size of zero or less means the default
// top ten.
func Leaderboard(facts []*Fact, w Window, now time.Time, size int) Standings {
	if size <= 0 {
		size = DefaultLeaderboardSize
	}

	eligible := make([]*Fact, 0, len(facts))
	cutoff := now.Add(-7 * 24 * time.Hour)
	for _, f := range facts {
		if f.Hidden {
			continue
		}
		if w == WindowWeek && f.CreatedAt.Before(cutoff) {
			continue
		}
		eligible = append(eligible, f)
	}

	byFunny := append([]*Fact(nil), eligible...)
	sort.SliceStable(byFunny, func(i, j int) bool {
		return byFunny[i].Funny > byFunny[j].Funny
	})

	byEngagement := append([]*Fact(nil), eligible...)
	sort.SliceStable(byEngagement, func(i, j int) bool {
		return byEngagement[i].Engagement() > byEngagement[j].Engagement()
	})

	return Standings{
		TopFunny:   truncate(byFunny, size),
		TopEngaged: truncate(byEngagement, size),
	}
}

func truncate(facts []*Fact, n int) []*Fact {
	if len(facts) > n {
		return facts[:n]
	}
	return facts
}
