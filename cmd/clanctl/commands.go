package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/galclan/openfront-clanstats/internal/domain/ranking"
)

func newLeaderboardCmd(c *cli) *cobra.Command {
	var (
		board    string
		page     int
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print a page of the clan leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := c.container.Leaderboard.GetPage(cmd.Context(), board, page, pageSize)
			if err != nil {
				return err
			}
			return renderLeaderboard(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&board, "board", "overall", "overall, ffa, team or duel")
	cmd.Flags().IntVar(&page, "page", 1, "page number, clamped to the last page")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "rows per page (0 uses LEADERBOARD_PAGE_SIZE)")
	return cmd
}

func newOfficialCmd(c *cli) *cobra.Command {
	var (
		clanOnly bool
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "official",
		Short: "Print the official OpenFront 1v1 ranking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				snap ranking.Snapshot
				err  error
			)
			if clanOnly {
				snap, err = c.container.Official.ClanView(cmd.Context())
			} else {
				snap, err = c.container.Official.Get(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			if err := renderOfficial(cmd.OutOrStdout(), snap); err != nil {
				return err
			}
			return renderRateLimit(cmd.OutOrStdout(), c.container.Ranking.RateLimit())
		},
	}
	cmd.Flags().BoolVar(&clanOnly, "clan-only", false, "keep only players carrying the clan tag")
	cmd.Flags().IntVar(&limit, "limit", 25, "maximum rows")
	return cmd
}

func newBackfillStepCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "backfill-step",
		Short: "Advance the backfill cursor by one window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := c.container.Backfill.Initialize(cmd.Context()); err != nil {
				return err
			}
			step, err := c.container.Backfill.Step(cmd.Context())
			if err != nil {
				return err
			}
			if err := renderStep(cmd.OutOrStdout(), step); err != nil {
				return err
			}
			if step.Err != nil {
				return fmt.Errorf("backfill window failed: %w", step.Err)
			}
			return nil
		},
	}
}

func newRefreshCmd(c *cli) *cobra.Command {
	var startRaw, endRaw string
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Sweep an arbitrary window and count unseen matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := parseTimeFlag("start", startRaw)
			if err != nil {
				return err
			}
			end := time.Now().UTC()
			if endRaw != "" {
				if end, err = parseTimeFlag("end", endRaw); err != nil {
					return err
				}
			}
			result, err := c.container.Ingestion.RefreshRange(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			return renderRange(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&startRaw, "start", "", "window start (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&endRaw, "end", "", "window end, defaults to now")
	return cmd
}

func newResetCmd(c *cli) *cobra.Command {
	var (
		yes      bool
		startRaw string
	)
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe every counter and the match ledger, then rewind the backfill cursor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			var start time.Time
			if startRaw != "" {
				var err error
				if start, err = parseTimeFlag("start", startRaw); err != nil {
					return err
				}
			}
			cursor, err := c.container.Admin.ResetAll(cmd.Context(), start)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "reset done, backfill restarts at %s\n", cursor.Position.Format(time.RFC3339))
			return err
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the destructive reset")
	cmd.Flags().StringVar(&startRaw, "start", "", "new backfill start, defaults to BACKFILL_START")
	return cmd
}

func newSeedCmd(c *cli) *cobra.Command {
	var startRaw, endRaw string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Mark every match in a window as processed without counting it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start := c.container.Config.BackfillStart
			if startRaw != "" {
				var err error
				if start, err = parseTimeFlag("start", startRaw); err != nil {
					return err
				}
			}
			end := time.Now().UTC()
			if endRaw != "" {
				var err error
				if end, err = parseTimeFlag("end", endRaw); err != nil {
					return err
				}
			}
			result, err := c.container.Ingestion.SeedHistory(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			return renderRange(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&startRaw, "start", "", "window start, defaults to BACKFILL_START")
	cmd.Flags().StringVar(&endRaw, "end", "", "window end, defaults to now")
	return cmd
}

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the backfill cursor and remaining steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := c.container.Backfill.Status(cmd.Context())
			if err != nil {
				return err
			}
			return renderStatus(cmd.OutOrStdout(), status)
		},
	}
}

func newRunsCmd(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List the most recent sweep runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runs, err := c.container.Journal.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return renderRuns(cmd.OutOrStdout(), runs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows")
	return cmd
}

func newGamesCmd(c *cli) *cobra.Command {
	var (
		startRaw string
		endRaw   string
		maxGames int
	)
	cmd := &cobra.Command{
		Use:   "games",
		Short: "List public games in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := parseTimeFlag("start", startRaw)
			if err != nil {
				return err
			}
			end, err := parseTimeFlag("end", endRaw)
			if err != nil {
				return err
			}
			games, err := c.container.Admin.ListPublicGames(cmd.Context(), start, end, maxGames)
			if err != nil {
				return err
			}
			return renderGames(cmd.OutOrStdout(), games)
		},
	}
	cmd.Flags().StringVar(&startRaw, "start", "", "window start (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&endRaw, "end", "", "window end (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().IntVar(&maxGames, "max", 50, "maximum games")
	return cmd
}

func newClanCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "clan",
		Short: "Show the tracked clan's row of the public clan leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary, err := c.container.Clans.Summary(cmd.Context())
			if err != nil {
				return err
			}
			return renderClanSummary(cmd.OutOrStdout(), summary)
		},
	}
}

func newClansCmd(c *cli) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "clans",
		Short: "Print the top clans by weighted win/loss ratio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := c.container.Clans.TopClans(cmd.Context(), top)
			if err != nil {
				return err
			}
			return renderClanTable(cmd.OutOrStdout(), table)
		},
	}
	cmd.Flags().IntVar(&top, "top", 10, "number of clans, at most 100")
	return cmd
}

func newGameMembersCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "game-members <game-id>",
		Short: "List clan members, winners and opposing clans of one game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineup, err := c.container.Clans.GameLineup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderLineup(cmd.OutOrStdout(), lineup)
		},
	}
}

func newPlayerSessionsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "player-sessions <player-id>",
		Short: "List a player's recent sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := c.container.Clans.PlayerSessions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderSessions(cmd.OutOrStdout(), sessions)
		},
	}
}
