package fixtures

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// ExportFixture is the scoreboard-facing shape of a fixture.
type ExportFixture struct {
	Date      string `json:"date"`
	Team      string `json:"team"`
	Category  string `json:"category"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	Kickoff   string `json:"kickoff"`
	Division  string `json:"division"`
	Location  string `json:"location"`
	Status    string `json:"status"`
	FixtureID string `json:"fixtureId,omitempty"`
	HomeScore *int   `json:"home_score"`
	AwayScore *int   `json:"away_score"`
}

// Export is the JSON payload for the scoreboard displays, split into home
// and away fixtures.
type Export struct {
	GeneratedAt string          `json:"generated_at"`
	Home        []ExportFixture `json:"home"`
	Away        []ExportFixture `json:"away"`
}

// BuildExport splits fixtures into home and away lists for the scoreboard.
func BuildExport(fixtures []Fixture, clubName string, now time.Time) *Export {
	export := &Export{
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Home:        make([]ExportFixture, 0),
		Away:        make([]ExportFixture, 0),
	}

	for _, f := range fixtures {
		home := IsHome(f, clubName)
		location := "Away"
		if home {
			location = "Home"
		}

		ef := ExportFixture{
			Date:      f.Date,
			Team:      f.Team,
			Category:  Gender(f),
			HomeTeam:  f.HomeTeam,
			AwayTeam:  f.AwayTeam,
			Kickoff:   f.Kickoff,
			Division:  DivisionLabel(f),
			Location:  location,
			Status:    f.Status,
			FixtureID: f.FixtureID,
			HomeScore: f.HomeScore,
			AwayScore: f.AwayScore,
		}

		if home {
			export.Home = append(export.Home, ef)
		} else {
			export.Away = append(export.Away, ef)
		}
	}
	return export
}

// WriteJSON writes the scoreboard export to path.
func WriteJSON(path string, export *Export) error {
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding fixtures export: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing fixtures export: %w", err)
	}
	return nil
}

// WriteCSV writes fixtures in the scoreboard CSV layout:
// Team, Opponent, Match_Time, Location, Division.
func WriteCSV(w io.Writer, fixtures []Fixture, clubName string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Team", "Opponent", "Match_Time", "Location", "Division"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, f := range fixtures {
		opponent := f.HomeTeam
		location := "Away"
		if IsHome(f, clubName) {
			opponent = f.AwayTeam
			location = "Home"
		}

		if err := cw.Write([]string{f.Team, opponent, f.Kickoff, location, DivisionLabel(f)}); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes fixtures to a CSV file at path.
func WriteCSVFile(path string, fixtures []Fixture, clubName string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer f.Close()
	return WriteCSV(f, fixtures, clubName)
}
