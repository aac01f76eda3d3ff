package sweeprun

import "time"

type Kind string

const (
	KindBackfill Kind = "backfill"
	KindLive     Kind = "live"
	KindRefresh  Kind = "refresh"
	KindSeed     Kind = "seed"
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one journal row per sweep. It is operational telemetry only; no
// match data is kept.
type Run struct {
	ID            string
	Kind          Kind
	Status        Status
	WindowStart   time.Time
	WindowEnd     time.Time
	Seen          int
	Processed     int
	Skipped       int
	FailedDetails int
	ErrorMessage  string
	TraceID       string
	StartedAt     time.Time
	FinishedAt    time.Time

	// SkipReasons counts skipped matches by classifier reason.
	SkipReasons map[string]int
}

func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
