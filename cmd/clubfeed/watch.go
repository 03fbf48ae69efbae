package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/stalbanshc/clubfeed/internal/config"
	"github.com/stalbanshc/clubfeed/internal/export"
	"github.com/stalbanshc/clubfeed/internal/snapshot"
)

func newWatchCmd() *cobra.Command {
	var (
		configPath  string
		output      string
		interval    time.Duration
		once        bool
		validate    bool
		expectCount int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Fetch team data snapshots periodically to keep the display current",
		RunE: func(cmd *cobra.Command, args []string) error {
			previousPath := snapshot.QualifiedPath(output, "prev")

			tick := func(ctx context.Context) error {
				entries, err := config.LoadTeams(configPath)
				if err != nil {
					return err
				}

				result, err := runBulk(ctx, entries, export.BulkOptions{
					OutputPath:   output,
					PublishPath:  output,
					PreviousPath: previousPath,
					Rotate:       true,
					SnapshotDate: time.Now().Format("2006-01-02 15:04:05"),
				})
				if err != nil {
					return err
				}
				logger.Info().
					Int("teams", len(result.Results)).
					Int("failed", result.Failed).
					Bool("rotated", result.Rotated).
					Msg("fetch cycle complete")

				if validate {
					issues, err := snapshot.Validate(output, previousPath, expectCount)
					if err != nil {
						return err
					}
					if len(issues) > 0 {
						for _, issue := range issues {
							logger.Error().Str("issue", issue).Msg("snapshot validation issue")
						}
						return fmt.Errorf("snapshot validation failed with %d issue(s)", len(issues))
					}
					logger.Info().Msg("snapshot validation passed")
				}
				return nil
			}

			if once {
				return tick(cmd.Context())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info().Dur("interval", interval).Msg("starting live updater")
			if err := tick(ctx); err != nil {
				logger.Error().Err(err).Msg("fetch cycle failed, will retry at next interval")
			}

			c := cron.New()
			if _, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
				if err := tick(ctx); err != nil {
					logger.Error().Err(err).Msg("fetch cycle failed, will retry at next interval")
				}
			}); err != nil {
				return fmt.Errorf("scheduling fetch cycle: %w", err)
			}

			c.Start()
			<-ctx.Done()
			logger.Info().Msg("stopping live updater")
			stopCtx := c.Stop()
			<-stopCtx.Done()
			return nil
		},
	}

	defaultOutput := filepath.Join("data", "league", "teamData.json")
	cmd.Flags().StringVar(&configPath, "config", "config/teamCompIDs.json", "Path to the team/competition config JSON")
	cmd.Flags().StringVar(&output, "output", defaultOutput, "Published snapshot path")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Minute, "Interval between fetch cycles")
	cmd.Flags().BoolVar(&once, "once", false, "Run one fetch cycle and exit (for external schedulers)")
	cmd.Flags().BoolVar(&validate, "validate", false, "Run snapshot validation after each fetch")
	cmd.Flags().IntVar(&expectCount, "expect-count", 0, "Expected number of teams for validation")
	return cmd
}
