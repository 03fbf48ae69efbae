package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stalbanshc/clubfeed/internal/config"
	"github.com/stalbanshc/clubfeed/internal/gms"
)

func newGMSClient() *gms.Client {
	return gms.New(gms.Options{
		RefreshBase:     cfg.GMSRefreshBase,
		CompetitionsURL: cfg.GMSCompetitionsURL,
		BaseDelay:       cfg.RateLimitDelay,
		RetryLimit:      cfg.RetryLimit,
		Timeout:         cfg.GMSTimeout,
		Logger:          logger,
	})
}

// competitionRecord is one row of the resolved team/competition config.
type competitionRecord struct {
	Name         string            `json:"name"`
	TeamID       string            `json:"teamId,omitempty"`
	Competitions []gms.Competition `json:"competitions,omitempty"`
	CompID       string            `json:"compId,omitempty"`
	CompLabel    string            `json:"compLabel,omitempty"`
	Error        string            `json:"error,omitempty"`
}

func newCompetitionsCmd() *cobra.Command {
	var teamFile, output string

	cmd := &cobra.Command{
		Use:   "competitions",
		Short: "Fetch current competition IDs for every configured team",
		RunE: func(cmd *cobra.Command, args []string) error {
			teams, err := config.LoadTeams(teamFile)
			if err != nil {
				return err
			}

			client := newGMSClient()
			records := make([]competitionRecord, 0, len(teams))

			for i, entry := range teams {
				name := entry.Name
				if name == "" {
					name = fmt.Sprintf("Team %d", i+1)
				}

				if entry.TeamID == "" {
					records = append(records, competitionRecord{Name: name, Error: "Missing teamId"})
					continue
				}

				comps, err := client.CompetitionsForTeam(cmd.Context(), entry.TeamID)
				if err != nil {
					records = append(records, competitionRecord{Name: name, TeamID: entry.TeamID, Error: err.Error()})
					continue
				}

				record := competitionRecord{Name: name, TeamID: entry.TeamID, Competitions: comps}
				if selected := gms.SelectCompetition(comps); selected != nil {
					record.CompID = selected.CompID
					record.CompLabel = selected.Label
				}
				records = append(records, record)
			}

			if err := writeJSON(output, records); err != nil {
				return err
			}
			printJSON(records)
			logger.Info().Int("entries", len(records)).Str("output", output).Msg("saved competition config")
			return nil
		},
	}

	cmd.Flags().StringVar(&teamFile, "team-file", "config/teamIDs.json", "Path to the team ID list")
	cmd.Flags().StringVar(&output, "output", "config/teamCompIDs.json", "Where to save the merged team/competition JSON")
	return cmd
}

func newTeamDataCmd() *cobra.Command {
	var teamID, compID string

	cmd := &cobra.Command{
		Use:   "team-data",
		Short: "Fetch the league-table row for a team",
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := newGMSClient().TeamRow(cmd.Context(), teamID, compID)
			if err != nil {
				return err
			}
			printJSON(row)
			return nil
		},
	}

	cmd.Flags().StringVar(&teamID, "team-id", "", "Team UUID")
	cmd.Flags().StringVar(&compID, "comp-id", "", "Competition UUID")
	cmd.MarkFlagRequired("team-id")
	cmd.MarkFlagRequired("comp-id")
	return cmd
}

func newTeamSummaryCmd() *cobra.Command {
	var teamID, compID, output string

	cmd := &cobra.Command{
		Use:   "team-summary",
		Short: "Fetch the summary league table for a team",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := newGMSClient().TeamSummary(cmd.Context(), teamID, compID)
			if err != nil {
				return err
			}
			printJSON(summary)
			if output != "" {
				if err := writeJSON(output, summary); err != nil {
					return err
				}
				logger.Info().Str("output", output).Msg("saved team summary")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&teamID, "team-id", "", "Team UUID")
	cmd.Flags().StringVar(&compID, "comp-id", "", "Optional competition UUID (omit for cross-competition summary)")
	cmd.Flags().StringVar(&output, "output", "", "Optional file to save the summary JSON")
	cmd.MarkFlagRequired("team-id")
	return cmd
}

// writeJSON saves v as indented JSON, creating parent directories as needed.
func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
