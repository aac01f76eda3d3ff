package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/galclan/openfront-clanstats/internal/domain/playerstats"
	qb "github.com/galclan/openfront-clanstats/internal/platform/querybuilder"
)

type PlayerCounterRepository struct {
	db *sqlx.DB
}

func NewPlayerCounterRepository(db *sqlx.DB) *PlayerCounterRepository {
	return &PlayerCounterRepository{db: db}
}

func (r *PlayerCounterRepository) ListAll(ctx context.Context) ([]playerstats.Counters, error) {
	cols, err := qb.Columns(playerCountersTableModel{})
	if err != nil {
		return nil, fmt.Errorf("resolve player counter columns: %w", err)
	}
	query, args, err := qb.Select(cols...).From("player_counters").
		OrderBy("player_key").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player counters query: %w", err)
	}

	var rows []playerCountersTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player counters: %w", err)
	}

	out := make([]playerstats.Counters, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerstats.Counters{
			Key:         row.Key,
			DisplayName: row.DisplayName,
			WinsFFA:     row.WinsFFA,
			LossesFFA:   row.LossesFFA,
			WinsTeam:    row.WinsTeam,
			LossesTeam:  row.LossesTeam,
			WinsDuel:    row.WinsDuel,
			LossesDuel:  row.LossesDuel,
			UpdatedAt:   row.UpdatedAt.UTC(),
		})
	}
	return out, nil
}
