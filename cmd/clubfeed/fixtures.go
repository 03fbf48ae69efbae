package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stalbanshc/clubfeed/internal/fixtures"
	"github.com/stalbanshc/clubfeed/internal/matches"
)

func newFetchMatchesCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "fetch-matches",
		Short: "Download the club matches page for fixture extraction",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := matches.NewDownloader(cfg.MatchesURL).Fetch(cmd.Context(), dir)
			if err != nil {
				return err
			}
			logger.Info().Str("path", path).Msg("saved matches page")
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to save the matches page in")
	return cmd
}

func newFixturesCmd() *cobra.Command {
	var (
		input      string
		dir        string
		output     string
		mensCSV    string
		womensCSV  string
		exclusions string
		icsPath    string
		start      string
		end        string
	)

	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Extract and filter weekend fixtures for the scoreboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := input
			if path == "" {
				latest, err := matches.LatestFile(dir)
				if err != nil {
					return err
				}
				path = latest
			}
			logger.Info().Str("file", path).Msg("using matches page")

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			all, err := fixtures.ExtractFromHTML(f)
			if err != nil {
				return err
			}

			var window fixtures.Window
			if start != "" && end != "" {
				window, err = fixtures.DateRangeWindow(start, end)
				if err != nil {
					return err
				}
			} else {
				window = fixtures.WeekendWindow(time.Now())
			}
			logger.Info().
				Time("start", window.Start).
				Time("end", window.End).
				Msg("filtering fixtures")

			selected := fixtures.FilterWindow(all, window)
			for i := range selected {
				selected[i].SynthesizeID()
			}
			selected = fixtures.ApplyExclusions(selected, fixtures.LoadExclusions(exclusions))

			export := fixtures.BuildExport(selected, cfg.ClubName, time.Now())
			if err := fixtures.WriteJSON(output, export); err != nil {
				return err
			}
			logger.Info().
				Int("home", len(export.Home)).
				Int("away", len(export.Away)).
				Str("output", output).
				Msg("wrote fixtures export")

			mens, womens := fixtures.SplitByGender(selected)
			fixtures.SortByTeamNumber(mens)
			fixtures.SortByTeamNumber(womens)

			if err := fixtures.WriteCSVFile(mensCSV, mens, cfg.ClubName); err != nil {
				return err
			}
			if err := fixtures.WriteCSVFile(womensCSV, womens, cfg.ClubName); err != nil {
				return err
			}
			logger.Info().
				Int("mens", len(mens)).
				Int("womens", len(womens)).
				Msg("wrote fixtures CSVs")

			if icsPath != "" {
				ics := fixtures.GenerateICS(selected, cfg.ClubName, time.Now())
				if err := os.WriteFile(icsPath, []byte(ics), 0644); err != nil {
					return err
				}
				logger.Info().Str("output", icsPath).Msg("wrote fixtures calendar")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Matches page HTML file (defaults to newest matches_data_*.html)")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to search for saved matches pages")
	cmd.Flags().StringVar(&output, "output", "weekend_fixtures.json", "Output JSON filename")
	cmd.Flags().StringVar(&mensCSV, "mens-csv", "mens_fixtures.csv", "Men's CSV filename")
	cmd.Flags().StringVar(&womensCSV, "womens-csv", "womens_fixtures.csv", "Women's CSV filename")
	cmd.Flags().StringVar(&exclusions, "exclusions", "exclusions.json", "Fixture-ID exclusion list")
	cmd.Flags().StringVar(&icsPath, "ics", "", "Optional iCalendar output for the filtered fixtures")
	cmd.Flags().StringVar(&start, "start", "", "Start date dd/mm/YYYY (with --end, overrides the weekend window)")
	cmd.Flags().StringVar(&end, "end", "", "End date dd/mm/YYYY")
	return cmd
}
