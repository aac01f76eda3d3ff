package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/galclan/openfront-clanstats/internal/domain/backfill"
	"github.com/galclan/openfront-clanstats/internal/platform/logging"
)

type SchedulerConfig struct {
	Enabled          bool
	BackfillInterval time.Duration
	LiveInterval     time.Duration
}

// Scheduler hosts the backfill and live loops. Each loop runs its own steps
// one at a time; the two loops may interleave.
type Scheduler struct {
	backfill  *BackfillService
	ingestion *IngestionService
	cfg       SchedulerConfig
	logger    *logging.Logger
}

func NewScheduler(backfillService *BackfillService, ingestion *IngestionService, cfg SchedulerConfig, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{backfill: backfillService, ingestion: ingestion, cfg: cfg, logger: logger.Named("scheduler")}
}

// Run blocks until ctx is cancelled. A panicking loop stops both loops and is
// returned as an error.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.logger.Info("scheduler disabled")
		<-ctx.Done()
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg := conc.NewWaitGroup()
	wg.Go(func() {
		defer cancel()
		tick := &backfillTicker{scheduler: s}
		s.loop(ctx, "backfill", s.cfg.BackfillInterval, tick.run)
	})
	wg.Go(func() {
		defer cancel()
		s.loop(ctx, "live", s.cfg.LiveInterval, s.liveTick)
	})

	if recovered := wg.WaitAndRecover(); recovered != nil {
		return fmt.Errorf("scheduler loop panicked: %w", recovered.AsError())
	}
	return nil
}

func (s *Scheduler) loop(ctx context.Context, name string, interval time.Duration, tick func(context.Context)) {
	if interval <= 0 {
		s.logger.Warn("loop disabled, interval must be > 0", "loop", name)
		<-ctx.Done()
		return
	}
	s.logger.Info("loop started", "loop", name, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("loop stopped", "loop", name)
			return
		case <-ticker.C:
			tick(ctx)
		}
	}
}

// backfillTicker keeps retrying cursor initialization on every tick and only
// steps once it has succeeded. It is owned by the backfill loop goroutine.
type backfillTicker struct {
	scheduler   *Scheduler
	initialized bool
}

func (t *backfillTicker) run(ctx context.Context) {
	if !t.initialized {
		if _, err := t.scheduler.backfill.Initialize(ctx); err != nil {
			if ctx.Err() == nil {
				t.scheduler.logger.WarnContext(ctx, "backfill cursor initialization failed, retrying next tick",
					"transient", IsTransient(err),
					"error", err,
				)
			}
			return
		}
		t.initialized = true
	}
	t.scheduler.backfillTick(ctx)
}

func (s *Scheduler) backfillTick(ctx context.Context) {
	step, err := s.backfill.Step(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "backfill step error", "error", err)
		return
	}
	if step.Status == backfill.StepAlreadyComplete {
		s.logger.DebugContext(ctx, "backfill already completed", "cursor", step.Cursor.Position)
	}
}

func (s *Scheduler) liveTick(ctx context.Context) {
	if _, err := s.ingestion.LiveSweep(ctx); err != nil && ctx.Err() == nil {
		s.logger.WarnContext(ctx, "live sweep failed", "error", err)
	}
}
