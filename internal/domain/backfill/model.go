package backfill

import (
	"errors"
	"time"
)

// DefaultWindow is the size of one backfill step.
const DefaultWindow = 48 * time.Hour

var ErrCursorNotFound = errors.New("backfill cursor not found")

// Cursor is the singleton sweep frontier. Position never decreases and
// Completed is sticky until a reset reseeds the cursor.
type Cursor struct {
	Position            time.Time
	Completed           bool
	LastAttempt         time.Time
	LastError           string
	LastWindowSeen      int
	LastWindowProcessed int
}

// Seed returns a fresh cursor at start in the sweeping state.
func Seed(start time.Time) Cursor {
	return Cursor{Position: start.UTC()}
}

// NextWindow returns [Position, min(Position+window, now)).
func (c Cursor) NextWindow(window time.Duration, now time.Time) (start, end time.Time) {
	start = c.Position
	end = start.Add(window)
	if end.After(now) {
		end = now
	}
	if end.Before(start) {
		end = start
	}
	return start, end
}

// Advance records a successful sweep of a window ending at end.
func (c Cursor) Advance(end, now time.Time, seen, processed int) Cursor {
	if end.After(c.Position) {
		c.Position = end
	}
	c.Completed = !c.Position.Before(now)
	c.LastAttempt = now
	c.LastError = ""
	c.LastWindowSeen = seen
	c.LastWindowProcessed = processed
	return c
}

// Fail records a failed sweep; the position is left unchanged so the same
// window is retried.
func (c Cursor) Fail(err error, now time.Time) Cursor {
	c.LastAttempt = now
	if err != nil {
		c.LastError = err.Error()
	}
	return c
}

// StepsToComplete is ceil((now-start)/window), the number of successful
// steps needed to reach now.
func StepsToComplete(start, now time.Time, window time.Duration) int {
	if window <= 0 || !now.After(start) {
		return 0
	}
	span := now.Sub(start)
	steps := int(span / window)
	if span%window != 0 {
		steps++
	}
	return steps
}

type StepStatus string

const (
	StepAdvanced        StepStatus = "advanced"
	StepAlreadyComplete StepStatus = "already_completed"
	StepFailed          StepStatus = "failed"
)

type StepResult struct {
	RunID       string
	Status      StepStatus
	Cursor      Cursor
	WindowStart time.Time
	WindowEnd   time.Time
	Seen        int
	Processed   int
	Err         error
}
