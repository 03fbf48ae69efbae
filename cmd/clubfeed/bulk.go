package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stalbanshc/clubfeed/internal/config"
	"github.com/stalbanshc/clubfeed/internal/export"
	"github.com/stalbanshc/clubfeed/internal/team"
)

func newBulkCmd() *cobra.Command {
	var (
		configPath   string
		output       string
		publishPath  string
		previousPath string
		rotate       bool
		snapshotDate string
	)

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Fetch league stats for every team in the saved config",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := config.LoadTeams(configPath)
			if err != nil {
				return err
			}

			result, err := runBulk(cmd.Context(), entries, export.BulkOptions{
				OutputPath:   output,
				PublishPath:  publishPath,
				PreviousPath: previousPath,
				Rotate:       rotate,
				SnapshotDate: snapshotDate,
			})
			if err != nil {
				return err
			}

			printJSON(result.Results)
			logger.Info().
				Int("teams", len(result.Results)).
				Str("output", result.WrittenPath).
				Msg("saved team records")
			return nil
		},
	}

	defaultOutput := filepath.Join("data", "league", "teamData.json")
	cmd.Flags().StringVar(&configPath, "config", "config/teamCompIDs.json", "Path to the team/competition config JSON")
	cmd.Flags().StringVar(&output, "output", defaultOutput, "Where to write the freshly fetched JSON")
	cmd.Flags().StringVar(&publishPath, "publish-path", "", "Where to publish the rotated snapshot (defaults to --output)")
	cmd.Flags().StringVar(&previousPath, "previous-path", "", "Where to archive the previous snapshot (defaults to <publish>.prev.json)")
	cmd.Flags().BoolVar(&rotate, "rotate-snapshots", false, "After a full fetch, demote the published snapshot and promote the new one")
	cmd.Flags().StringVar(&snapshotDate, "snapshot-date", "", "Optional ISO date/tag to store in each exported record's metadata")
	return cmd
}

// runBulk wires the orchestrator from the app config and executes one run.
func runBulk(ctx context.Context, entries []config.TeamEntry, opts export.BulkOptions) (*export.BulkResult, error) {
	opts.Entries = entries
	builder := team.NewBuilder(newGMSClient())
	orch := export.New(builder,
		export.WithRetrySchedule(cfg.BulkRetryRounds, cfg.BulkBackoffBase),
		export.WithLogger(logger),
	)
	return orch.RunBulk(ctx, opts)
}
