package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/galclan/openfront-clanstats/internal/domain/backfill"
	"github.com/galclan/openfront-clanstats/internal/domain/sweeprun"
	"github.com/galclan/openfront-clanstats/internal/platform/logging"
)

type BackfillConfig struct {
	Start       time.Time
	Window      time.Duration
	SkipHistory bool
}

// BackfillStatus is the cursor plus how many steps remain until it reaches
// now.
type BackfillStatus struct {
	Cursor         backfill.Cursor
	Initialized    bool
	RemainingSteps int
	Window         time.Duration
}

// BackfillService owns the cursor and steps it one window at a time.
type BackfillService struct {
	cursors   backfill.Repository
	ingestion *IngestionService
	cfg       BackfillConfig
	logger    *logging.Logger
	now       func() time.Time

	// steps of this service never overlap
	mu sync.Mutex
}

func NewBackfillService(cursors backfill.Repository, ingestion *IngestionService, cfg BackfillConfig, logger *logging.Logger) *BackfillService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Window <= 0 {
		cfg.Window = backfill.DefaultWindow
	}
	return &BackfillService{
		cursors:   cursors,
		ingestion: ingestion,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *BackfillService) WithClock(now func() time.Time) *BackfillService {
	if now != nil {
		s.now = now
	}
	return s
}

// Initialize creates the cursor on first start. With SkipHistory the trailing
// live window is marked processed and the cursor starts completed at now.
func (s *BackfillService) Initialize(ctx context.Context) (backfill.Cursor, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackfillService.Initialize")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	cursor, err := s.cursors.Get(ctx)
	if err == nil {
		return cursor, nil
	}
	if !errors.Is(err, backfill.ErrCursorNotFound) {
		return backfill.Cursor{}, fmt.Errorf("get backfill cursor: %w", err)
	}

	now := s.now().UTC()
	if !s.cfg.SkipHistory {
		cursor = backfill.Seed(s.cfg.Start)
		if err := s.cursors.Save(ctx, cursor); err != nil {
			return backfill.Cursor{}, fmt.Errorf("seed backfill cursor: %w", err)
		}
		s.logger.InfoContext(ctx, "backfill cursor seeded", "cursor", cursor.Position)
		return cursor, nil
	}

	start := now.Add(-s.ingestion.cfg.LiveWindow)
	result, err := s.ingestion.SeedHistory(ctx, start, now)
	if err != nil {
		return backfill.Cursor{}, fmt.Errorf("skip history: %w", err)
	}
	cursor = backfill.Seed(now).Advance(now, now, result.Seen, 0)
	if err := s.cursors.Save(ctx, cursor); err != nil {
		return backfill.Cursor{}, fmt.Errorf("save completed cursor: %w", err)
	}
	s.logger.InfoContext(ctx, "history skipped, backfill cursor starts completed",
		"cursor", cursor.Position,
		"marked", result.Processed,
	)
	return cursor, nil
}

// Step sweeps the next window. A completed cursor is a fixed point; a failed
// sweep leaves the position where it was so the next call retries it.
func (s *BackfillService) Step(ctx context.Context) (backfill.StepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackfillService.Step")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	cursor, err := s.cursors.Get(ctx)
	if errors.Is(err, backfill.ErrCursorNotFound) {
		cursor = backfill.Seed(s.cfg.Start)
	} else if err != nil {
		return backfill.StepResult{}, fmt.Errorf("get backfill cursor: %w", err)
	}

	if cursor.Completed {
		return backfill.StepResult{Status: backfill.StepAlreadyComplete, Cursor: cursor}, nil
	}

	now := s.now().UTC()
	start, end := cursor.NextWindow(s.cfg.Window, now)
	res, sweepErr := s.ingestion.Sweep(ctx, sweeprun.KindBackfill, start, end)

	step := backfill.StepResult{
		RunID:       res.RunID,
		WindowStart: start,
		WindowEnd:   end,
		Seen:        res.Seen,
		Processed:   res.Processed,
	}
	if sweepErr != nil {
		cursor = cursor.Fail(sweepErr, now)
		step.Status = backfill.StepFailed
		step.Err = sweepErr
	} else {
		cursor = cursor.Advance(end, now, res.Seen, res.Processed)
		step.Status = backfill.StepAdvanced
	}
	step.Cursor = cursor

	if err := s.cursors.Save(context.WithoutCancel(ctx), cursor); err != nil {
		return step, fmt.Errorf("save backfill cursor: %w", err)
	}

	if sweepErr != nil {
		s.logger.WarnContext(ctx, "backfill step failed, window will be retried",
			"window_start", start,
			"window_end", end,
			"transient", IsTransient(sweepErr),
			"error", sweepErr,
		)
	} else if cursor.Completed {
		s.logger.InfoContext(ctx, "backfill completed", "cursor", cursor.Position)
	}
	return step, nil
}

func (s *BackfillService) Status(ctx context.Context) (BackfillStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackfillService.Status")
	defer span.End()

	cursor, err := s.cursors.Get(ctx)
	if errors.Is(err, backfill.ErrCursorNotFound) {
		seed := backfill.Seed(s.cfg.Start)
		return BackfillStatus{
			Cursor:         seed,
			RemainingSteps: backfill.StepsToComplete(seed.Position, s.now(), s.cfg.Window),
			Window:         s.cfg.Window,
		}, nil
	}
	if err != nil {
		return BackfillStatus{}, fmt.Errorf("get backfill cursor: %w", err)
	}

	status := BackfillStatus{Cursor: cursor, Initialized: true, Window: s.cfg.Window}
	if !cursor.Completed {
		status.RemainingSteps = backfill.StepsToComplete(cursor.Position, s.now(), s.cfg.Window)
	}
	return status, nil
}

// SeedCursor returns the cursor a reset starts from.
func (s *BackfillService) SeedCursor(start time.Time) backfill.Cursor {
	if start.IsZero() {
		start = s.cfg.Start
	}
	return backfill.Seed(start)
}
