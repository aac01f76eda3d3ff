package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/galclan/openfront-clanstats/internal/app"
	"github.com/galclan/openfront-clanstats/internal/config"
	"github.com/galclan/openfront-clanstats/internal/platform/logging"
)

type cli struct {
	envFile   string
	logLevel  string
	container *app.Container
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "clanctl",
		Short:         "Operate the OpenFront clan statistics store",
		Long:          "One-shot operator commands for the clan leaderboard: sweeps, backfill, resets and read-only views.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.container == nil {
				return nil
			}
			return c.container.Close()
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override APP_LOG_LEVEL")

	root.AddCommand(
		newLeaderboardCmd(c),
		newOfficialCmd(c),
		newBackfillStepCmd(c),
		newRefreshCmd(c),
		newResetCmd(c),
		newSeedCmd(c),
		newStatusCmd(c),
		newRunsCmd(c),
		newGamesCmd(c),
		newClanCmd(c),
		newClansCmd(c),
		newGameMembersCmd(c),
		newPlayerSessionsCmd(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	if c.envFile != "" {
		if err := godotenv.Load(c.envFile); err != nil && cmd.Flags().Changed("env-file") {
			return fmt.Errorf("load %s: %w", c.envFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if c.logLevel != "" {
		level = logging.ParseLevel(c.logLevel)
	}

	logger := logging.NewConsole(cmd.ErrOrStderr(), level)
	logging.SetDefault(logger)

	container, err := app.Build(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	c.container = container
	return nil
}

var errMissingFlag = errors.New("missing required flag")

// parseTimeFlag accepts RFC3339 or a bare YYYY-MM-DD date, both read as UTC.
func parseTimeFlag(name, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: --%s", errMissingFlag, name)
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: expected RFC3339 or YYYY-MM-DD, got %q", name, raw)
	}
	return t.UTC(), nil
}
