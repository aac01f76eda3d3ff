package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/galclan/openfront-clanstats/internal/domain/backfill"
	"github.com/galclan/openfront-clanstats/internal/domain/playerstats"
	qb "github.com/galclan/openfront-clanstats/internal/platform/querybuilder"
)

var counterUpsertAssignments = []string{
	"display_name = CASE WHEN EXCLUDED.display_name <> '' THEN EXCLUDED.display_name ELSE player_counters.display_name END",
	"wins_ffa = player_counters.wins_ffa + EXCLUDED.wins_ffa",
	"losses_ffa = player_counters.losses_ffa + EXCLUDED.losses_ffa",
	"wins_team = player_counters.wins_team + EXCLUDED.wins_team",
	"losses_team = player_counters.losses_team + EXCLUDED.losses_team",
	"wins_duel = player_counters.wins_duel + EXCLUDED.wins_duel",
	"losses_duel = player_counters.losses_duel + EXCLUDED.losses_duel",
	"updated_at = GREATEST(player_counters.updated_at, EXCLUDED.updated_at)",
}

// StatsStore owns processed_matches and player_counters. Marking a match and
// incrementing its counters share one transaction.
type StatsStore struct {
	db *sqlx.DB
}

func NewStatsStore(db *sqlx.DB) *StatsStore {
	return &StatsStore{db: db}
}

func (s *StatsStore) HasProcessed(ctx context.Context, matchID string) (bool, error) {
	query, args, err := qb.Select("match_id").From("processed_matches").
		Where(qb.Eq("match_id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build has processed query: %w", err)
	}

	var id string
	if err := s.db.GetContext(ctx, &id, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check processed match id=%s: %w", matchID, err)
	}
	return true, nil
}

func (s *StatsStore) ApplyMatch(ctx context.Context, matchID string, increments []playerstats.Increment, at time.Time) (bool, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return false, fmt.Errorf("apply match: match id is required")
	}
	at = at.UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx apply match: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertInto("processed_matches").
		Columns("match_id", "processed_at").
		Values(matchID, at).
		OnConflictDoNothing("match_id").
		Returning("match_id").
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build mark processed query: %w", err)
	}

	var inserted string
	if err := tx.GetContext(ctx, &inserted, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("mark processed match id=%s: %w", matchID, err)
	}

	for _, inc := range increments {
		if inc.IsZero() || strings.TrimSpace(inc.Key) == "" {
			continue
		}
		builder, err := qb.InsertModel("player_counters", playerCountersTableModel{
			Key:         inc.Key,
			DisplayName: inc.DisplayName,
			WinsFFA:     inc.WinsFFA,
			LossesFFA:   inc.LossesFFA,
			WinsTeam:    inc.WinsTeam,
			LossesTeam:  inc.LossesTeam,
			WinsDuel:    inc.WinsDuel,
			LossesDuel:  inc.LossesDuel,
			UpdatedAt:   at,
		})
		if err != nil {
			return false, fmt.Errorf("build counter model: %w", err)
		}
		query, args, err := builder.
			OnConflictUpdate([]string{"player_key"}, counterUpsertAssignments...).
			ToSQL()
		if err != nil {
			return false, fmt.Errorf("build counter upsert query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("upsert counters key=%s match=%s: %w", inc.Key, matchID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit apply match tx: %w", err)
	}
	return true, nil
}

// ResetAll truncates the ledger and counters and reseeds the cursor.
func (s *StatsStore) ResetAll(ctx context.Context, cursor backfill.Cursor) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx reset all: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range []string{"processed_matches", "player_counters"} {
		query, args, err := qb.DeleteFrom(table).ToSQL()
		if err != nil {
			return fmt.Errorf("build delete %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := saveCursor(ctx, tx, cursor); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset all tx: %w", err)
	}
	return nil
}
