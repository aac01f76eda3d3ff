package ranking

import (
	"context"
	"time"
)

// OfficialEntry is one row of the external 1v1 ranking.
type OfficialEntry struct {
	Rank     int
	Username string
	Elo      float64
	Wins     int64
	Losses   int64
	Games    int64
	// WinRate is a percentage in [0, 100].
	WinRate float64
}

// Provider fetches the official ranking, at most limit rows.
type Provider interface {
	FetchOfficialRanking(ctx context.Context, limit int) ([]OfficialEntry, error)
}

// Snapshot is the cached ranking with the time it was fetched.
type Snapshot struct {
	Entries   []OfficialEntry
	FetchedAt time.Time
}
