package postgres

import (
	"database/sql"
	"time"
)

type playerCountersTableModel struct {
	Key         string    `db:"player_key"`
	DisplayName string    `db:"display_name"`
	WinsFFA     int64     `db:"wins_ffa"`
	LossesFFA   int64     `db:"losses_ffa"`
	WinsTeam    int64     `db:"wins_team"`
	LossesTeam  int64     `db:"losses_team"`
	WinsDuel    int64     `db:"wins_duel"`
	LossesDuel  int64     `db:"losses_duel"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type backfillCursorTableModel struct {
	ID                  int          `db:"id"`
	Position            time.Time    `db:"cursor_position"`
	Completed           bool         `db:"completed"`
	LastAttempt         sql.NullTime `db:"last_attempt"`
	LastError           string       `db:"last_error"`
	LastWindowSeen      int          `db:"last_window_seen"`
	LastWindowProcessed int          `db:"last_window_processed"`
	UpdatedAt           time.Time    `db:"updated_at"`
}

type sweepRunTableModel struct {
	ID            string       `db:"id"`
	Kind          string       `db:"kind"`
	Status        string       `db:"status"`
	WindowStart   sql.NullTime `db:"window_start"`
	WindowEnd     sql.NullTime `db:"window_end"`
	Seen          int          `db:"seen"`
	Processed     int          `db:"processed"`
	Skipped       int          `db:"skipped"`
	FailedDetails int          `db:"failed_details"`
	SkipReasons   string       `db:"skip_reasons"`
	ErrorMessage  string       `db:"error_message"`
	TraceID       string       `db:"trace_id"`
	StartedAt     time.Time    `db:"started_at"`
	FinishedAt    time.Time    `db:"finished_at"`
}
