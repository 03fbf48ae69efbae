// Command clubfeed works with the club's GMS league data and the website
// matches feed.
//
// Usage:
//
//	clubfeed competitions --team-file config/teamIDs.json --output config/teamCompIDs.json
//	clubfeed team-data --team-id <uuid> --comp-id <uuid>
//	clubfeed team-summary --team-id <uuid> [--comp-id <uuid>]
//	clubfeed bulk --config config/teamCompIDs.json --rotate-snapshots
//	clubfeed recent-results --team-id <uuid> --comp-id <uuid> --weekend 2025-11-15
//	clubfeed validate --expect-count 26
//	clubfeed fetch-matches
//	clubfeed fixtures [--start 29/11/2025 --end 30/11/2025]
//	clubfeed watch --interval 5m --validate --expect-count 26
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stalbanshc/clubfeed/internal/config"
)

var (
	cfg    *config.Config
	logger zerolog.Logger
)

func main() {
	root := &cobra.Command{
		Use:           "clubfeed",
		Short:         "Fetch, reconcile and export club league data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			logger = newLogger(cfg.LogLevel)
			return nil
		},
	}

	root.AddCommand(newCompetitionsCmd())
	root.AddCommand(newTeamDataCmd())
	root.AddCommand(newTeamSummaryCmd())
	root.AddCommand(newBulkCmd())
	root.AddCommand(newRecentResultsCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newFetchMatchesCmd())
	root.AddCommand(newFixturesCmd())
	root.AddCommand(newWatchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
