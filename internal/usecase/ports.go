package usecase

import (
	"context"
	"time"

	"github.com/galclan/openfront-clanstats/internal/domain/backfill"
	"github.com/galclan/openfront-clanstats/internal/domain/clan"
	"github.com/galclan/openfront-clanstats/internal/domain/match"
	"github.com/galclan/openfront-clanstats/internal/domain/playerstats"
)

// MatchProvider is the OpenFront read API the range fetcher depends on.
type MatchProvider interface {
	FetchClanSessions(ctx context.Context, clanTag string, start, end time.Time) ([]match.Session, error)
	FetchGame(ctx context.Context, gameID string) (match.Game, error)
}

type PublicGameLister interface {
	ListPublicGames(ctx context.Context, start, end time.Time, max int) ([]match.PublicGame, error)
}

// ClanDirectory is the OpenFront read API behind the on-demand clan views.
type ClanDirectory interface {
	clan.Provider
	FetchGame(ctx context.Context, gameID string) (match.Game, error)
	FetchPlayerSessions(ctx context.Context, playerID string) ([]match.Session, error)
}

// StatsStore owns the dedup ledger and the player counters.
type StatsStore interface {
	match.Ledger
	// ApplyMatch marks matchID processed and applies increments atomically.
	// applied is false when the match was already processed, in which case
	// nothing is incremented. An empty increment list only marks the match.
	ApplyMatch(ctx context.Context, matchID string, increments []playerstats.Increment, at time.Time) (applied bool, err error)
	// ResetAll clears the ledger and counters and reseeds the cursor in one
	// unit of work.
	ResetAll(ctx context.Context, cursor backfill.Cursor) error
}
