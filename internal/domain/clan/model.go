package clan

import (
	"context"
	"slices"
	"strings"
	"time"
)

// Standing is one clan's row of the public clan leaderboard.
type Standing struct {
	Tag             string
	Games           int64
	Wins            int64
	Losses          int64
	PlayerSessions  int64
	WeightedWins    float64
	WeightedLosses  float64
	WeightedWLRatio float64
}

// WinRate is wins over games as a percentage, zero without games.
func (s Standing) WinRate() float64 {
	if s.Games <= 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games) * 100
}

// Leaderboard is the clan table the API computes over [Start, End).
type Leaderboard struct {
	Start time.Time
	End   time.Time
	Clans []Standing
}

// Find matches tags case-insensitively.
func (l Leaderboard) Find(tag string) (Standing, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return Standing{}, false
	}
	for _, s := range l.Clans {
		if strings.EqualFold(s.Tag, tag) {
			return s, true
		}
	}
	return Standing{}, false
}

// Ranked orders a copy of the clans by weighted W/L ratio, highest first.
// Ties fall back to games played, then tag.
func (l Leaderboard) Ranked() []Standing {
	out := slices.Clone(l.Clans)
	slices.SortStableFunc(out, func(a, b Standing) int {
		switch {
		case a.WeightedWLRatio != b.WeightedWLRatio:
			if a.WeightedWLRatio > b.WeightedWLRatio {
				return -1
			}
			return 1
		case a.Games != b.Games:
			if a.Games > b.Games {
				return -1
			}
			return 1
		default:
			return strings.Compare(strings.ToUpper(a.Tag), strings.ToUpper(b.Tag))
		}
	})
	return out
}

// Position is the 1-based rank of tag within ranked, or 0 when absent.
func Position(ranked []Standing, tag string) int {
	for i, s := range ranked {
		if strings.EqualFold(s.Tag, strings.TrimSpace(tag)) {
			return i + 1
		}
	}
	return 0
}

// Provider fetches the public clan leaderboard.
type Provider interface {
	FetchClanLeaderboard(ctx context.Context) (Leaderboard, error)
}
