package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/galclan/openfront-clanstats/external/openfront"
	"github.com/galclan/openfront-clanstats/internal/domain/backfill"
	"github.com/galclan/openfront-clanstats/internal/domain/match"
	"github.com/galclan/openfront-clanstats/internal/domain/ranking"
	"github.com/galclan/openfront-clanstats/internal/domain/sweeprun"
	"github.com/galclan/openfront-clanstats/internal/usecase"
)

const timeLayout = "2006-01-02 15:04"

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(timeLayout)
}

func renderLeaderboard(w io.Writer, p usecase.LeaderboardPage) error {
	if p.Empty() {
		_, err := fmt.Fprintf(w, "%s leaderboard: no data yet\n", p.Board)
		return err
	}

	table := newTable(w)
	table.Header("#", "PLAYER", "W", "L", "GAMES", "WIN%", "SCORE")
	for _, e := range p.Page.Entries {
		table.Append(
			strconv.Itoa(e.Rank),
			e.DisplayName,
			strconv.FormatInt(e.Wins, 10),
			strconv.FormatInt(e.Losses, 10),
			strconv.FormatInt(e.Games, 10),
			fmt.Sprintf("%.1f", e.Ratio*100),
			fmt.Sprintf("%.2f", e.Score),
		)
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%s board, page %d/%d, %d players, %d wins / %d losses, updated %s\n",
		p.Board, p.Page.Page, p.Page.TotalPages, p.Page.TotalEntries,
		p.Page.TotalWins, p.Page.TotalLosses, formatTime(p.Page.UpdatedAt))
	return err
}

func renderOfficial(w io.Writer, snap ranking.Snapshot) error {
	if len(snap.Entries) == 0 {
		_, err := fmt.Fprintln(w, "official ranking: no entries")
		return err
	}

	table := newTable(w)
	table.Header("#", "PLAYER", "ELO", "W", "L", "GAMES", "WIN%")
	for _, e := range snap.Entries {
		table.Append(
			strconv.Itoa(e.Rank),
			e.Username,
			fmt.Sprintf("%.0f", e.Elo),
			strconv.FormatInt(e.Wins, 10),
			strconv.FormatInt(e.Losses, 10),
			strconv.FormatInt(e.Games, 10),
			fmt.Sprintf("%.1f", e.WinRate),
		)
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "fetched %s\n", formatTime(snap.FetchedAt))
	return err
}

// renderRateLimit prints nothing until the ranking host has answered once.
func renderRateLimit(w io.Writer, info openfront.RateLimitInfo) error {
	if info.UpdatedAt.IsZero() || info.Limit <= 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "ranking quota %d/%d, resets in %ds\n", info.Remaining, info.Limit, info.Reset)
	return err
}

func renderRange(w io.Writer, r usecase.RangeResult) error {
	table := newTable(w)
	table.Header("WINDOW", "SEEN", "PROCESSED", "SKIPPED", "ALREADY", "FAILED")
	table.Append(
		formatTime(r.WindowStart)+" .. "+formatTime(r.WindowEnd),
		strconv.Itoa(r.Seen),
		strconv.Itoa(r.Processed),
		strconv.Itoa(r.Skipped),
		strconv.Itoa(r.AlreadyProcessed),
		strconv.Itoa(r.FailedDetails),
	)
	if err := table.Render(); err != nil {
		return err
	}
	for reason, n := range r.SkipReasons {
		if _, err := fmt.Fprintf(w, "  skipped %-24s %d\n", reason, n); err != nil {
			return err
		}
	}
	return nil
}

func renderStep(w io.Writer, s backfill.StepResult) error {
	if s.Status == backfill.StepAlreadyComplete {
		_, err := fmt.Fprintf(w, "backfill already complete at %s\n", formatTime(s.Cursor.Position))
		return err
	}
	_, err := fmt.Fprintf(w, "backfill %s: %s .. %s, seen %d, processed %d, cursor %s\n",
		s.Status, formatTime(s.WindowStart), formatTime(s.WindowEnd),
		s.Seen, s.Processed, formatTime(s.Cursor.Position))
	return err
}

func renderStatus(w io.Writer, s usecase.BackfillStatus) error {
	table := newTable(w)
	table.Header("CURSOR", "COMPLETED", "REMAINING", "WINDOW", "LAST ATTEMPT", "LAST ERROR")
	lastError := s.Cursor.LastError
	if lastError == "" {
		lastError = "-"
	}
	if !s.Initialized {
		lastError = "not initialized"
	}
	table.Append(
		formatTime(s.Cursor.Position),
		strconv.FormatBool(s.Cursor.Completed),
		strconv.Itoa(s.RemainingSteps),
		s.Window.String(),
		formatTime(s.Cursor.LastAttempt),
		lastError,
	)
	return table.Render()
}

func renderRuns(w io.Writer, runs []sweeprun.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "no sweep runs recorded")
		return err
	}

	table := newTable(w)
	table.Header("RUN", "KIND", "STATUS", "WINDOW START", "SEEN", "PROCESSED", "SKIPPED", "FAILED", "DURATION")
	for _, r := range runs {
		runID := r.ID
		if len(runID) > 8 {
			runID = runID[:8]
		}
		table.Append(
			runID,
			string(r.Kind),
			string(r.Status),
			formatTime(r.WindowStart),
			strconv.Itoa(r.Seen),
			strconv.Itoa(r.Processed),
			strconv.Itoa(r.Skipped),
			strconv.Itoa(r.FailedDetails),
			r.Duration().Round(time.Millisecond).String(),
		)
	}
	return table.Render()
}

func renderGames(w io.Writer, games []match.PublicGame) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "no public games in window")
		return err
	}

	table := newTable(w)
	table.Header("GAME", "MODE", "MAP", "PLAYERS", "STARTED", "ENDED")
	for _, g := range games {
		table.Append(g.ID, g.Mode, g.MapName, strconv.Itoa(g.Players), formatTime(g.StartedAt), formatTime(g.EndedAt))
	}
	return table.Render()
}

func renderClanSummary(w io.Writer, s usecase.ClanSummary) error {
	table := newTable(w)
	table.Header("CLAN", "RANK", "GAMES", "W", "L", "WIN%", "W/L", "WEIGHTED W", "SESSIONS")
	table.Append(
		"["+s.Standing.Tag+"]",
		fmt.Sprintf("%d/%d", s.Position, s.TotalClans),
		strconv.FormatInt(s.Standing.Games, 10),
		strconv.FormatInt(s.Standing.Wins, 10),
		strconv.FormatInt(s.Standing.Losses, 10),
		fmt.Sprintf("%.1f", s.Standing.WinRate()),
		fmt.Sprintf("%.2f", s.Standing.WeightedWLRatio),
		fmt.Sprintf("%.2f", s.Standing.WeightedWins),
		strconv.FormatInt(s.Standing.PlayerSessions, 10),
	)
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "period %s .. %s\n", formatTime(s.PeriodStart), formatTime(s.PeriodEnd))
	return err
}

func renderClanTable(w io.Writer, t usecase.ClanTable) error {
	if len(t.Top) == 0 {
		_, err := fmt.Fprintln(w, "clan leaderboard: no clans")
		return err
	}

	table := newTable(w)
	table.Header("#", "TAG", "W/L", "GAMES", "WIN%")
	for i, s := range t.Top {
		tag := s.Tag
		if i+1 == t.TrackedPosition {
			tag = "> " + tag
		}
		table.Append(
			strconv.Itoa(i+1),
			tag,
			fmt.Sprintf("%.2f", s.WeightedWLRatio),
			strconv.FormatInt(s.Games, 10),
			fmt.Sprintf("%.1f", s.WinRate()),
		)
	}
	if err := table.Render(); err != nil {
		return err
	}

	if t.TrackedPosition == 0 {
		_, err := fmt.Fprintf(w, "%s is not on the clan leaderboard (%d clans)\n", t.TrackedTag, t.TotalClans)
		return err
	}
	_, err := fmt.Fprintf(w, "%s is #%d of %d clans\n", t.TrackedTag, t.TrackedPosition, t.TotalClans)
	return err
}

func renderLineup(w io.Writer, l match.Lineup) error {
	opponents := make([]string, 0, len(l.OpponentClans))
	for _, tag := range l.OpponentClans {
		opponents = append(opponents, "["+tag+"]")
	}

	_, err := fmt.Fprintf(w, "game %s (%s)\nmembers:   %s\nwinners:   %s\nopponents: %s\n",
		l.GameID, orDash(l.Mode), joinOrDash(l.Members), joinOrDash(l.Winners), joinOrDash(opponents))
	return err
}

func renderSessions(w io.Writer, sessions []match.Session) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "no sessions")
		return err
	}

	table := newTable(w)
	table.Header("GAME", "MODE", "WON", "STARTED", "ENDED")
	for _, s := range sessions {
		table.Append(s.GameID, orDash(s.Mode), strconv.FormatBool(s.GroupWon), formatTime(s.StartedAt), formatTime(s.EndedAt))
	}
	return table.Render()
}

func joinOrDash(items []string) string {
	return orDash(strings.Join(items, ", "))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
