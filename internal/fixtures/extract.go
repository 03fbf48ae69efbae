// Package fixtures extracts scheduled and completed matches from the club
// website's embedded page state, filters them to a reporting window, and
// writes the JSON/CSV exports consumed by the public scoreboard displays.
package fixtures

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Fixture is one scheduled or completed match as extracted from the page
// state. Division is a pointer because the feed uses null division to mark
// junior fixtures.
type Fixture struct {
	Date          string  `json:"date"`
	Team          string  `json:"team"`
	Competition   string  `json:"competition"`
	Division      *string `json:"division"`
	HomeTeam      string  `json:"home_team"`
	AwayTeam      string  `json:"away_team"`
	Kickoff       string  `json:"kickoff"`
	Location      string  `json:"location"`
	HA            string  `json:"ha"`
	CompetitionID string  `json:"competitionId"`
	Status        string  `json:"status"`
	FixtureID     string  `json:"fixtureId"`
	HomeScore     *int    `json:"home_score"`
	AwayScore     *int    `json:"away_score"`
}

// nextData mirrors the slice of the __NEXT_DATA__ payload the scoreboard
// needs. Everything else in the page state is ignored.
type nextData struct {
	Props struct {
		InitialReduxState struct {
			Calendar struct {
				CurrentlyLoaded map[string]struct {
					Days []struct {
						Fixtures []rawFixture `json:"fixtures"`
					} `json:"days"`
				} `json:"currentlyLoaded"`
			} `json:"calendar"`
		} `json:"initialReduxState"`
	} `json:"props"`
}

type rawSide struct {
	Name  string          `json:"name"`
	Score json.RawMessage `json:"score"`
}

type rawFixture struct {
	ID                     json.RawMessage `json:"id"`
	DateTime               string          `json:"dateTime"`
	TeamName               string          `json:"teamName"`
	Type                   string          `json:"type"`
	Division               *string         `json:"division"`
	HomeSide               rawSide         `json:"homeSide"`
	AwaySide               rawSide         `json:"awaySide"`
	Kickoff                string          `json:"kickoff"`
	Location               string          `json:"location"`
	HA                     string          `json:"ha"`
	CompetitionID          string          `json:"competitionId"`
	IsCancelledOrPostponed bool            `json:"isCancelledOrPostponed"`
}

// ExtractFromHTML reads a saved matches page and extracts its fixtures from
// the script#__NEXT_DATA__ JSON blob.
func ExtractFromHTML(r io.Reader) ([]Fixture, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing matches page: %w", err)
	}

	blob := doc.Find(`script#__NEXT_DATA__[type="application/json"]`).First().Text()
	if strings.TrimSpace(blob) == "" {
		return nil, fmt.Errorf("page state JSON not found in matches page")
	}

	var data nextData
	if err := json.Unmarshal([]byte(blob), &data); err != nil {
		return nil, fmt.Errorf("decoding page state: %w", err)
	}

	fixtures := make([]Fixture, 0)
	for _, loaded := range data.Props.InitialReduxState.Calendar.CurrentlyLoaded {
		for _, day := range loaded.Days {
			for _, raw := range day.Fixtures {
				fixtures = append(fixtures, fromRaw(raw))
			}
		}
	}
	return fixtures, nil
}

func fromRaw(raw rawFixture) Fixture {
	status := "Scheduled"
	if raw.IsCancelledOrPostponed {
		status = "Cancelled/Postponed"
	}

	return Fixture{
		Date:          raw.DateTime,
		Team:          raw.TeamName,
		Competition:   raw.Type,
		Division:      raw.Division,
		HomeTeam:      raw.HomeSide.Name,
		AwayTeam:      raw.AwaySide.Name,
		Kickoff:       raw.Kickoff,
		Location:      raw.Location,
		HA:            raw.HA,
		CompetitionID: raw.CompetitionID,
		Status:        status,
		FixtureID:     rawString(raw.ID),
		HomeScore:     parseScore(raw.HomeSide.Score),
		AwayScore:     parseScore(raw.AwaySide.Score),
	}
}

// parseScore tolerates the feed's mixed score encodings (numbers, numeric
// strings, null, junk text). Anything non-numeric becomes nil.
func parseScore(raw json.RawMessage) *int {
	s := rawString(raw)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}

// rawString renders a raw JSON scalar (string or number) as a plain string.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// SynthesizeID fills in a deterministic fixture ID when the feed omits one,
// so exclusion lists keep working across refetches.
func (f *Fixture) SynthesizeID() {
	if f.FixtureID != "" {
		return
	}
	h := sha1.New()
	h.Write([]byte(f.Date + "|" + f.HomeTeam + "|" + f.AwayTeam))
	f.FixtureID = fmt.Sprintf("%x", h.Sum(nil))
}
