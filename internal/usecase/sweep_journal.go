package usecase

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/galclan/openfront-clanstats/internal/domain/sweeprun"
	"github.com/galclan/openfront-clanstats/internal/platform/id"
	"github.com/galclan/openfront-clanstats/internal/platform/logging"
)

// SweepJournal writes one sweeprun.Run per sweep and logs its summary line.
// A nil repository still logs.
type SweepJournal struct {
	repo      sweeprun.Repository
	ids       id.Generator
	retention int
	logger    *logging.Logger
}

func NewSweepJournal(repo sweeprun.Repository, ids id.Generator, retention int, logger *logging.Logger) *SweepJournal {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SweepJournal{repo: repo, ids: ids, retention: retention, logger: logger}
}

// NewRunID reserves an id before the sweep starts so log lines can carry it.
func (j *SweepJournal) NewRunID() string {
	runID, err := j.ids.NewID()
	if err != nil {
		j.logger.Warn("generate sweep run id failed", "error", err)
		return ""
	}
	return runID
}

func (j *SweepJournal) Record(ctx context.Context, runID string, kind sweeprun.Kind, result RangeResult, startedAt, finishedAt time.Time, runErr error) sweeprun.Run {
	run := sweeprun.Run{
		ID:            runID,
		Kind:          kind,
		Status:        sweeprun.StatusCompleted,
		WindowStart:   result.WindowStart,
		WindowEnd:     result.WindowEnd,
		Seen:          result.Seen,
		Processed:     result.Processed,
		Skipped:       result.Skipped,
		FailedDetails: result.FailedDetails,
		StartedAt:     startedAt.UTC(),
		FinishedAt:    finishedAt.UTC(),
		SkipReasons:   result.skipReasonCounts(),
	}
	if runErr != nil {
		run.Status = sweeprun.StatusFailed
		run.ErrorMessage = runErr.Error()
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		run.TraceID = sc.TraceID().String()
	}

	fields := []any{
		"run_id", run.ID,
		"kind", run.Kind,
		"status", run.Status,
		"window_start", run.WindowStart,
		"window_end", run.WindowEnd,
		"seen", run.Seen,
		"processed", run.Processed,
		"skipped", run.Skipped,
		"failed_details", run.FailedDetails,
		"duration_ms", run.Duration().Milliseconds(),
	}
	if runErr != nil {
		j.logger.WarnContext(ctx, "sweep failed", append(fields, "error", runErr)...)
	} else {
		j.logger.InfoContext(ctx, "sweep completed", fields...)
	}

	if j.repo == nil || run.ID == "" {
		return run
	}
	// The journal must outlive a cancelled sweep context.
	writeCtx := context.WithoutCancel(ctx)
	if err := j.repo.Insert(writeCtx, run); err != nil {
		j.logger.WarnContext(ctx, "record sweep run failed", "run_id", run.ID, "error", err)
		return run
	}
	if j.retention > 0 {
		if _, err := j.repo.Prune(writeCtx, j.retention); err != nil {
			j.logger.WarnContext(ctx, "prune sweep runs failed", "error", err)
		}
	}
	return run
}

// ListRecent returns the newest runs, newest first.
func (j *SweepJournal) ListRecent(ctx context.Context, limit int) ([]sweeprun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SweepJournal.ListRecent")
	defer span.End()

	if j.repo == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	return j.repo.ListRecent(ctx, limit)
}
