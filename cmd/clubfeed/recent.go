package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stalbanshc/clubfeed/internal/gms"
)

// weekendPayload is the recent-results output shape.
type weekendPayload struct {
	TeamID  string `json:"teamId"`
	CompID  string `json:"compId"`
	Weekend struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"weekend"`
	Fixtures []gms.FixtureRow `json:"fixtures"`
}

func newRecentResultsCmd() *cobra.Command {
	var teamID, compID, weekend, output string

	cmd := &cobra.Command{
		Use:   "recent-results",
		Short: "Fetch the most recent weekend fixtures for a team",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := weekendRange(weekend, time.Now())
			if err != nil {
				return err
			}

			rows, err := newGMSClient().ResultsAndFixtures(cmd.Context(), teamID, compID)
			if err != nil {
				return err
			}

			payload := weekendPayload{TeamID: teamID, CompID: compID}
			payload.Weekend.Start = start.Format("2006-01-02")
			payload.Weekend.End = end.Format("2006-01-02")
			payload.Fixtures = weekendRows(rows, start, end)

			printJSON(payload)
			if output != "" {
				if err := writeJSON(output, payload); err != nil {
					return err
				}
				logger.Info().Str("output", output).Msg("saved weekend results")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&teamID, "team-id", "", "Team UUID")
	cmd.Flags().StringVar(&compID, "comp-id", "", "Competition UUID")
	cmd.Flags().StringVar(&weekend, "weekend", "", "Weekend reference date (YYYY-MM-DD, Saturday). Defaults to last weekend")
	cmd.Flags().StringVar(&output, "output", "", "Optional file to save the weekend fixtures JSON")
	cmd.MarkFlagRequired("team-id")
	cmd.MarkFlagRequired("comp-id")
	return cmd
}

// weekendRange resolves the Saturday/Sunday pair for a reference date, or
// the most recent completed weekend when no reference is given.
func weekendRange(reference string, now time.Time) (time.Time, time.Time, error) {
	var saturday time.Time
	if reference != "" {
		parsed, err := time.Parse("2006-01-02", reference)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid weekend date %q, expected YYYY-MM-DD: %w", reference, err)
		}
		saturday = parsed
	} else {
		now = now.UTC()
		daysSince := (int(now.Weekday()) - int(time.Saturday) + 7) % 7
		if daysSince == 0 {
			daysSince = 7
		}
		d := now.AddDate(0, 0, -daysSince)
		saturday = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}
	return saturday, saturday.AddDate(0, 0, 1), nil
}

// weekendRows keeps fixture rows dated within [start, end] inclusive.
func weekendRows(rows []gms.FixtureRow, start, end time.Time) []gms.FixtureRow {
	kept := make([]gms.FixtureRow, 0, len(rows))
	for _, row := range rows {
		if row.DateISO == "" {
			continue
		}
		d, err := time.Parse("2006-01-02", row.DateISO)
		if err != nil {
			continue
		}
		if !d.Before(start) && !d.After(end) {
			kept = append(kept, row)
		}
	}
	return kept
}
