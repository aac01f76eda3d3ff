package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/galclan/openfront-clanstats/internal/domain/sweeprun"
	qb "github.com/galclan/openfront-clanstats/internal/platform/querybuilder"
)

type SweepRunRepository struct {
	db *sqlx.DB
}

func NewSweepRunRepository(db *sqlx.DB) *SweepRunRepository {
	return &SweepRunRepository{db: db}
}

func (r *SweepRunRepository) Insert(ctx context.Context, run sweeprun.Run) error {
	reasons, err := encodeSkipReasons(run.SkipReasons)
	if err != nil {
		return err
	}

	builder, err := qb.InsertModel("sweep_runs", sweepRunTableModel{
		ID:            run.ID,
		Kind:          string(run.Kind),
		Status:        string(run.Status),
		WindowStart:   nullableTime(run.WindowStart),
		WindowEnd:     nullableTime(run.WindowEnd),
		Seen:          run.Seen,
		Processed:     run.Processed,
		Skipped:       run.Skipped,
		FailedDetails: run.FailedDetails,
		SkipReasons:   reasons,
		ErrorMessage:  truncateText(run.ErrorMessage, maxStoredErrorText),
		TraceID:       run.TraceID,
		StartedAt:     run.StartedAt.UTC(),
		FinishedAt:    run.FinishedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("build sweep run model: %w", err)
	}
	query, args, err := builder.OnConflictDoNothing("id").ToSQL()
	if err != nil {
		return fmt.Errorf("build insert sweep run query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sweep run id=%s: %w", run.ID, err)
	}
	return nil
}

func (r *SweepRunRepository) ListRecent(ctx context.Context, limit int) ([]sweeprun.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	query, args, err := qb.Select("*").From("sweep_runs").
		OrderBy("started_at DESC", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sweep runs query: %w", err)
	}

	var rows []sweepRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sweep runs: %w", err)
	}

	out := make([]sweeprun.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, sweeprun.Run{
			ID:            row.ID,
			Kind:          sweeprun.Kind(row.Kind),
			Status:        sweeprun.Status(row.Status),
			WindowStart:   nullTimeValue(row.WindowStart),
			WindowEnd:     nullTimeValue(row.WindowEnd),
			Seen:          row.Seen,
			Processed:     row.Processed,
			Skipped:       row.Skipped,
			FailedDetails: row.FailedDetails,
			ErrorMessage:  row.ErrorMessage,
			TraceID:       row.TraceID,
			StartedAt:     row.StartedAt.UTC(),
			FinishedAt:    row.FinishedAt.UTC(),
			SkipReasons:   decodeSkipReasons(row.SkipReasons),
		})
	}
	return out, nil
}

func (r *SweepRunRepository) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	query, args, err := qb.DeleteFrom("sweep_runs").
		Where(qb.Expr("id NOT IN (SELECT id FROM sweep_runs ORDER BY started_at DESC, id LIMIT ?)", keep)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build prune sweep runs query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune sweep runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune sweep runs rows affected: %w", err)
	}
	return n, nil
}

func encodeSkipReasons(reasons map[string]int) (string, error) {
	if len(reasons) == 0 {
		return "{}", nil
	}
	raw, err := sonic.Marshal(reasons)
	if err != nil {
		return "", fmt.Errorf("encode skip reasons: %w", err)
	}
	return string(raw), nil
}

func decodeSkipReasons(raw string) map[string]int {
	if raw == "" || raw == "{}" {
		return nil
	}
	out := map[string]int{}
	if err := sonic.UnmarshalString(raw, &out); err != nil {
		return nil
	}
	return out
}
