package httpapi

import (
	"time"

	"github.com/galclan/openfront-clanstats/internal/domain/backfill"
	"github.com/galclan/openfront-clanstats/internal/domain/clan"
	"github.com/galclan/openfront-clanstats/internal/domain/match"
	"github.com/galclan/openfront-clanstats/internal/domain/playerstats"
	"github.com/galclan/openfront-clanstats/internal/domain/ranking"
	"github.com/galclan/openfront-clanstats/internal/domain/sweeprun"
	"github.com/galclan/openfront-clanstats/internal/usecase"
)

const noDataMessage = "no data yet"

type leaderboardQuery struct {
	Board    string `validate:"omitempty,oneof=overall ffa team duel 1v1"`
	Page     int    `validate:"gte=0"`
	PageSize int    `validate:"gte=0"`
}

type runsQuery struct {
	Limit int `validate:"gte=0,lte=200"`
}

type topClansQuery struct {
	Top int `validate:"gte=0,lte=100"`
}

type refreshRangeRequest struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required,gtfield=Start"`
}

type resetRequest struct {
	Confirm bool       `json:"confirm" validate:"required"`
	Start   *time.Time `json:"start,omitempty"`
}

type leaderboardEntryDTO struct {
	Rank        int     `json:"rank"`
	Key         string  `json:"key"`
	DisplayName string  `json:"display_name"`
	Wins        int64   `json:"wins"`
	Losses      int64   `json:"losses"`
	Games       int64   `json:"games"`
	Ratio       float64 `json:"ratio"`
	Score       float64 `json:"score"`
}

type leaderboardPageDTO struct {
	Board         string                `json:"board"`
	Page          int                   `json:"page"`
	PageSize      int                   `json:"page_size"`
	TotalPages    int                   `json:"total_pages"`
	TotalPlayers  int                   `json:"total_players"`
	TotalWins     int64                 `json:"total_wins"`
	TotalLosses   int64                 `json:"total_losses"`
	UpdatedAt     *time.Time            `json:"updated_at,omitempty"`
	NextRefreshAt *time.Time            `json:"next_refresh_at,omitempty"`
	Message       string                `json:"message,omitempty"`
	Entries       []leaderboardEntryDTO `json:"entries"`
}

type officialEntryDTO struct {
	Rank     int     `json:"rank"`
	Username string  `json:"username"`
	Elo      float64 `json:"elo"`
	Wins     int64   `json:"wins"`
	Losses   int64   `json:"losses"`
	Games    int64   `json:"games"`
	WinRate  float64 `json:"win_rate"`
}

type officialRankingDTO struct {
	ClanOnly  bool               `json:"clan_only"`
	FetchedAt time.Time          `json:"fetched_at"`
	Entries   []officialEntryDTO `json:"entries"`
}

type clanStandingDTO struct {
	Rank            int     `json:"rank,omitempty"`
	Tag             string  `json:"tag"`
	Games           int64   `json:"games"`
	Wins            int64   `json:"wins"`
	Losses          int64   `json:"losses"`
	PlayerSessions  int64   `json:"player_sessions"`
	WeightedWins    float64 `json:"weighted_wins"`
	WeightedLosses  float64 `json:"weighted_losses"`
	WeightedWLRatio float64 `json:"weighted_wl_ratio"`
	WinRate         float64 `json:"win_rate"`
}

type clanSummaryDTO struct {
	Clan        clanStandingDTO `json:"clan"`
	Position    int             `json:"position"`
	TotalClans  int             `json:"total_clans"`
	PeriodStart *time.Time      `json:"period_start,omitempty"`
	PeriodEnd   *time.Time      `json:"period_end,omitempty"`
}

type clanTableDTO struct {
	TrackedTag      string            `json:"tracked_tag"`
	TrackedPosition int               `json:"tracked_position,omitempty"`
	TotalClans      int               `json:"total_clans"`
	PeriodStart     *time.Time        `json:"period_start,omitempty"`
	PeriodEnd       *time.Time        `json:"period_end,omitempty"`
	Clans           []clanStandingDTO `json:"clans"`
}

type lineupDTO struct {
	GameID        string   `json:"game_id"`
	Mode          string   `json:"mode"`
	Members       []string `json:"members"`
	Winners       []string `json:"winners"`
	OpponentClans []string `json:"opponent_clans"`
}

type sessionDTO struct {
	GameID    string     `json:"game_id"`
	Won       bool       `json:"won"`
	Mode      string     `json:"mode"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

type cursorDTO struct {
	Position            time.Time  `json:"position"`
	Completed           bool       `json:"completed"`
	LastAttempt         *time.Time `json:"last_attempt,omitempty"`
	LastError           string     `json:"last_error,omitempty"`
	LastWindowSeen      int        `json:"last_window_seen"`
	LastWindowProcessed int        `json:"last_window_processed"`
}

type backfillStatusDTO struct {
	Cursor         cursorDTO `json:"cursor"`
	Initialized    bool      `json:"initialized"`
	RemainingSteps int       `json:"remaining_steps"`
	WindowSeconds  int64     `json:"window_seconds"`
}

type stepResultDTO struct {
	RunID       string    `json:"run_id,omitempty"`
	Status      string    `json:"status"`
	WindowStart time.Time `json:"window_start,omitzero"`
	WindowEnd   time.Time `json:"window_end,omitzero"`
	Seen        int       `json:"seen"`
	Processed   int       `json:"processed"`
	Error       string    `json:"error,omitempty"`
	Cursor      cursorDTO `json:"cursor"`
}

type rangeResultDTO struct {
	RunID            string         `json:"run_id"`
	WindowStart      time.Time      `json:"window_start"`
	WindowEnd        time.Time      `json:"window_end"`
	Seen             int            `json:"seen"`
	Processed        int            `json:"processed"`
	Skipped          int            `json:"skipped"`
	AlreadyProcessed int            `json:"already_processed"`
	MissingID        int            `json:"missing_id"`
	FailedDetails    int            `json:"failed_details"`
	SkipReasons      map[string]int `json:"skip_reasons,omitempty"`
}

type sweepRunDTO struct {
	ID            string         `json:"id"`
	Kind          string         `json:"kind"`
	Status        string         `json:"status"`
	WindowStart   time.Time      `json:"window_start"`
	WindowEnd     time.Time      `json:"window_end"`
	Seen          int            `json:"seen"`
	Processed     int            `json:"processed"`
	Skipped       int            `json:"skipped"`
	FailedDetails int            `json:"failed_details"`
	SkipReasons   map[string]int `json:"skip_reasons,omitempty"`
	ErrorMessage  string         `json:"error_message,omitempty"`
	TraceID       string         `json:"trace_id,omitempty"`
	StartedAt     time.Time      `json:"started_at"`
	DurationMS    int64          `json:"duration_ms"`
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.UTC()
	return &v
}

func leaderboardPageToDTO(p usecase.LeaderboardPage) leaderboardPageDTO {
	out := leaderboardPageDTO{
		Board:         string(p.Board),
		Page:          p.Page.Page,
		PageSize:      p.Page.PageSize,
		TotalPages:    p.Page.TotalPages,
		TotalPlayers:  p.Page.TotalEntries,
		TotalWins:     p.Page.TotalWins,
		TotalLosses:   p.Page.TotalLosses,
		UpdatedAt:     optionalTime(p.Page.UpdatedAt),
		NextRefreshAt: optionalTime(p.NextRefreshAt),
		Entries:       make([]leaderboardEntryDTO, 0, len(p.Page.Entries)),
	}
	if p.Empty() {
		out.Message = noDataMessage
	}
	for _, e := range p.Page.Entries {
		out.Entries = append(out.Entries, leaderboardEntryToDTO(e))
	}
	return out
}

func leaderboardEntryToDTO(e playerstats.Entry) leaderboardEntryDTO {
	return leaderboardEntryDTO{
		Rank:        e.Rank,
		Key:         e.Key,
		DisplayName: e.DisplayName,
		Wins:        e.Wins,
		Losses:      e.Losses,
		Games:       e.Games,
		Ratio:       e.Ratio,
		Score:       e.Score,
	}
}

func officialRankingToDTO(snap ranking.Snapshot, clanOnly bool) officialRankingDTO {
	out := officialRankingDTO{
		ClanOnly:  clanOnly,
		FetchedAt: snap.FetchedAt,
		Entries:   make([]officialEntryDTO, 0, len(snap.Entries)),
	}
	for _, e := range snap.Entries {
		out.Entries = append(out.Entries, officialEntryDTO{
			Rank:     e.Rank,
			Username: e.Username,
			Elo:      e.Elo,
			Wins:     e.Wins,
			Losses:   e.Losses,
			Games:    e.Games,
			WinRate:  e.WinRate,
		})
	}
	return out
}

func clanStandingToDTO(s clan.Standing, rank int) clanStandingDTO {
	return clanStandingDTO{
		Rank:            rank,
		Tag:             s.Tag,
		Games:           s.Games,
		Wins:            s.Wins,
		Losses:          s.Losses,
		PlayerSessions:  s.PlayerSessions,
		WeightedWins:    s.WeightedWins,
		WeightedLosses:  s.WeightedLosses,
		WeightedWLRatio: s.WeightedWLRatio,
		WinRate:         s.WinRate(),
	}
}

func clanSummaryToDTO(s usecase.ClanSummary) clanSummaryDTO {
	return clanSummaryDTO{
		Clan:        clanStandingToDTO(s.Standing, s.Position),
		Position:    s.Position,
		TotalClans:  s.TotalClans,
		PeriodStart: optionalTime(s.PeriodStart),
		PeriodEnd:   optionalTime(s.PeriodEnd),
	}
}

func clanTableToDTO(t usecase.ClanTable) clanTableDTO {
	out := clanTableDTO{
		TrackedTag:      t.TrackedTag,
		TrackedPosition: t.TrackedPosition,
		TotalClans:      t.TotalClans,
		PeriodStart:     optionalTime(t.PeriodStart),
		PeriodEnd:       optionalTime(t.PeriodEnd),
		Clans:           make([]clanStandingDTO, 0, len(t.Top)),
	}
	for i, s := range t.Top {
		out.Clans = append(out.Clans, clanStandingToDTO(s, i+1))
	}
	return out
}

func lineupToDTO(l match.Lineup) lineupDTO {
	return lineupDTO{
		GameID:        l.GameID,
		Mode:          l.Mode,
		Members:       nonNilStrings(l.Members),
		Winners:       nonNilStrings(l.Winners),
		OpponentClans: nonNilStrings(l.OpponentClans),
	}
}

func sessionToDTO(s match.Session) sessionDTO {
	return sessionDTO{
		GameID:    s.GameID,
		Won:       s.GroupWon,
		Mode:      s.Mode,
		StartedAt: optionalTime(s.StartedAt),
		EndedAt:   optionalTime(s.EndedAt),
	}
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func cursorToDTO(c backfill.Cursor) cursorDTO {
	return cursorDTO{
		Position:            c.Position,
		Completed:           c.Completed,
		LastAttempt:         optionalTime(c.LastAttempt),
		LastError:           c.LastError,
		LastWindowSeen:      c.LastWindowSeen,
		LastWindowProcessed: c.LastWindowProcessed,
	}
}

func backfillStatusToDTO(s usecase.BackfillStatus) backfillStatusDTO {
	return backfillStatusDTO{
		Cursor:         cursorToDTO(s.Cursor),
		Initialized:    s.Initialized,
		RemainingSteps: s.RemainingSteps,
		WindowSeconds:  int64(s.Window.Seconds()),
	}
}

func stepResultToDTO(s backfill.StepResult) stepResultDTO {
	out := stepResultDTO{
		RunID:       s.RunID,
		Status:      string(s.Status),
		WindowStart: s.WindowStart,
		WindowEnd:   s.WindowEnd,
		Seen:        s.Seen,
		Processed:   s.Processed,
		Cursor:      cursorToDTO(s.Cursor),
	}
	if s.Err != nil {
		out.Error = s.Err.Error()
	}
	return out
}

func rangeResultToDTO(r usecase.RangeResult) rangeResultDTO {
	out := rangeResultDTO{
		RunID:            r.RunID,
		WindowStart:      r.WindowStart,
		WindowEnd:        r.WindowEnd,
		Seen:             r.Seen,
		Processed:        r.Processed,
		Skipped:          r.Skipped,
		AlreadyProcessed: r.AlreadyProcessed,
		MissingID:        r.MissingID,
		FailedDetails:    r.FailedDetails,
	}
	if len(r.SkipReasons) > 0 {
		out.SkipReasons = make(map[string]int, len(r.SkipReasons))
		for reason, n := range r.SkipReasons {
			out.SkipReasons[string(reason)] = n
		}
	}
	return out
}

func sweepRunToDTO(r sweeprun.Run) sweepRunDTO {
	return sweepRunDTO{
		ID:            r.ID,
		Kind:          string(r.Kind),
		Status:        string(r.Status),
		WindowStart:   r.WindowStart,
		WindowEnd:     r.WindowEnd,
		Seen:          r.Seen,
		Processed:     r.Processed,
		Skipped:       r.Skipped,
		FailedDetails: r.FailedDetails,
		SkipReasons:   r.SkipReasons,
		ErrorMessage:  r.ErrorMessage,
		TraceID:       r.TraceID,
		StartedAt:     r.StartedAt,
		DurationMS:    r.Duration().Milliseconds(),
	}
}
