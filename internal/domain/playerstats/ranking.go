package playerstats

import (
	"sort"
	"time"
)

// Scoring holds the composite score weights and the minimum-games filter.
type Scoring struct {
	RatioWeight float64
	GamesWeight float64
	MinGames    int64
}

func DefaultScoring() Scoring {
	return Scoring{RatioWeight: 100, GamesWeight: 0.5, MinGames: 1}
}

// Score is (wins/games)*RatioWeight + games*GamesWeight, or 0 without games.
func (s Scoring) Score(wins, games int64) float64 {
	if games <= 0 {
		return 0
	}
	return float64(wins)/float64(games)*s.RatioWeight + float64(games)*s.GamesWeight
}

type Entry struct {
	Rank        int
	Key         string
	DisplayName string
	Wins        int64
	Losses      int64
	Games       int64
	Ratio       float64
	Score       float64
	UpdatedAt   time.Time
}

// Rank scores merged buckets for board, drops those under MinGames and
// sorts by score, wins and games, all descending. Key breaks remaining ties.
func Rank(buckets []Counters, board Board, s Scoring) []Entry {
	out := make([]Entry, 0, len(buckets))
	for _, b := range buckets {
		wins, losses := b.Record(board)
		games := wins + losses
		if games < s.MinGames {
			continue
		}
		e := Entry{
			Key:         b.Key,
			DisplayName: b.DisplayName,
			Wins:        wins,
			Losses:      losses,
			Games:       games,
			Score:       s.Score(wins, games),
			UpdatedAt:   b.UpdatedAt,
		}
		if games > 0 {
			e.Ratio = float64(wins) / float64(games)
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Games != b.Games {
			return a.Games > b.Games
		}
		return a.Key < b.Key
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

type Page struct {
	Entries      []Entry
	Page         int
	PageSize     int
	TotalPages   int
	TotalEntries int
	TotalWins    int64
	TotalLosses  int64
	// UpdatedAt is the newest update among all ranked entries; zero when the
	// board is empty.
	UpdatedAt time.Time
}

// Paginate slices ranked entries. page is clamped into [1, TotalPages] and
// TotalPages is at least 1.
func Paginate(entries []Entry, page, pageSize int) Page {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := (len(entries) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	p := Page{
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   totalPages,
		TotalEntries: len(entries),
	}
	for _, e := range entries {
		p.TotalWins += e.Wins
		p.TotalLosses += e.Losses
		if e.UpdatedAt.After(p.UpdatedAt) {
			p.UpdatedAt = e.UpdatedAt
		}
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}
	if start < end {
		p.Entries = append([]Entry(nil), entries[start:end]...)
	}
	return p
}
