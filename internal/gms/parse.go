package gms

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Competition is one option from the GMS competitions dropdown.
type Competition struct {
	CompID   string `json:"compId"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// LeagueRow holds the league-table row for a single team. All stats are kept
// as the raw strings the feed reports; the upstream does not guarantee
// numeric formatting.
type LeagueRow struct {
	Position     string `json:"position"`
	TeamName     string `json:"teamName"`
	Played       string `json:"played"`
	Won          string `json:"won"`
	Drawn        string `json:"drawn"`
	Lost         string `json:"lost"`
	GoalsFor     string `json:"goalsFor"`
	GoalsAgainst string `json:"goalsAgainst"`
	GoalDiff     string `json:"goalDiff"`
	Points       string `json:"points"`
	LeagueName   string `json:"leagueName"`
}

// FormEntry is one recent-result marker from the summary table.
type FormEntry struct {
	Result string `json:"result"`
}

// TeamSummary is the parsed summary-table row for a team, including the
// ordered form markers.
type TeamSummary struct {
	TeamName     string      `json:"teamName"`
	Played       string      `json:"played"`
	Won          string      `json:"won"`
	Drawn        string      `json:"drawn"`
	Lost         string      `json:"lost"`
	GoalsFor     string      `json:"goalsFor"`
	GoalsAgainst string      `json:"goalsAgainst"`
	GoalDiff     string      `json:"goalDiff"`
	Points       string      `json:"points"`
	PPG          string      `json:"ppg"`
	Form         []FormEntry `json:"form"`
	CompID       string      `json:"compId,omitempty"`
}

// FixtureRow is one row from the results+fixtures table.
type FixtureRow struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	HomeTeam   string `json:"homeTeam"`
	Score      string `json:"score"`
	ScoreClass string `json:"scoreClass"`
	AwayTeam   string `json:"awayTeam"`
	Venue      string `json:"venue"`
	VenueLink  string `json:"venueLink,omitempty"`
	DateISO    string `json:"dateIso,omitempty"`
	DateTime   string `json:"dateTime,omitempty"`
	Status     string `json:"status"`
	Completed  bool   `json:"completed"`
}

// ParseCompetitions extracts competition options from the competitions
// dropdown HTML fragment.
func ParseCompetitions(html string) ([]Competition, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	comps := make([]Competition, 0)
	doc.Find("select[name=comp_id] option").Each(func(i int, sel *goquery.Selection) {
		value := strings.TrimSpace(sel.AttrOr("value", ""))
		if value == "" {
			return
		}
		_, selected := sel.Attr("selected")
		comps = append(comps, Competition{
			CompID:   value,
			Label:    strings.TrimSpace(sel.Text()),
			Selected: selected,
		})
	})
	return comps, nil
}

// SelectCompetition picks the selected option, falling back to the first.
// Returns nil when the list is empty.
func SelectCompetition(comps []Competition) *Competition {
	if len(comps) == 0 {
		return nil
	}
	for i := range comps {
		if comps[i].Selected {
			return &comps[i]
		}
	}
	return &comps[0]
}

// ParseLeagueRow extracts the league-table row for the given team ID.
// Returns nil when the team's row is not present in the fragment.
func ParseLeagueRow(html, teamID string) (*LeagueRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	cells := rowCells(doc, "tr.gms-clubteam", teamID)
	if cells == nil {
		return nil, nil
	}

	leagueName := strings.TrimSpace(doc.Find(".gms-footnote").First().Text())
	if leagueName == "" {
		leagueName = "Unknown League"
	}

	return &LeagueRow{
		Position:     cellText(cells, 0, ""),
		TeamName:     cellText(cells, 1, ""),
		Played:       cellText(cells, 2, "0"),
		Won:          cellText(cells, 3, "0"),
		Drawn:        cellText(cells, 4, "0"),
		Lost:         cellText(cells, 5, "0"),
		GoalsFor:     cellText(cells, 6, "0"),
		GoalsAgainst: cellText(cells, 7, "0"),
		GoalDiff:     cellText(cells, 8, "0"),
		Points:       cellText(cells, 9, "0"),
		LeagueName:   leagueName,
	}, nil
}

// ParseTeamSummary extracts the summary row and form markers for the given
// team ID. An empty teamID matches the first row without a data-team
// attribute, which is how the cross-competition summary fragment is shaped.
func ParseTeamSummary(html, teamID string) (*TeamSummary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var row *goquery.Selection
	target := strings.ToLower(teamID)
	doc.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		dataTeam, has := tr.Attr("data-team")
		if target == "" {
			if !has && tr.Find("td").Length() > 0 {
				row = tr
				return false
			}
			return true
		}
		if strings.ToLower(dataTeam) == target {
			row = tr
			return false
		}
		return true
	})
	if row == nil {
		return nil, nil
	}

	cells := row.Find("td")
	if cells.Length() == 0 {
		return nil, nil
	}

	form := make([]FormEntry, 0)
	row.Find("span.gms-form").Each(func(i int, span *goquery.Selection) {
		if result := strings.TrimSpace(span.Text()); result != "" {
			form = append(form, FormEntry{Result: result})
		}
	})

	text := func(index int) string {
		if index >= cells.Length() {
			return ""
		}
		return strings.TrimSpace(cells.Eq(index).Text())
	}

	return &TeamSummary{
		TeamName:     text(0),
		Played:       text(1),
		Won:          text(2),
		Drawn:        text(3),
		Lost:         text(4),
		GoalsFor:     text(5),
		GoalsAgainst: text(6),
		GoalDiff:     text(7),
		Points:       text(8),
		PPG:          text(9),
		Form:         form,
	}, nil
}

// ParseResultsAndFixtures extracts rows from the results+fixtures table and
// derives ISO dates and completion status from the cell classes.
func ParseResultsAndFixtures(html string) ([]FixtureRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	fixtures := make([]FixtureRow, 0)
	doc.Find("table.gms-table-results tbody tr").Each(func(i int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}

		text := func(index int) string {
			if index >= cells.Length() {
				return ""
			}
			return strings.TrimSpace(cells.Eq(index).Text())
		}

		row := FixtureRow{
			Date:     text(0),
			Time:     text(1),
			HomeTeam: text(2),
			Score:    text(3),
			AwayTeam: text(4),
			Venue:    text(5),
		}
		if cells.Length() > 3 {
			row.ScoreClass = cells.Eq(3).AttrOr("class", "")
		}
		if cells.Length() > 5 {
			row.VenueLink = cells.Eq(5).Find("a").First().AttrOr("href", "")
		}

		deriveFixtureFields(&row)
		fixtures = append(fixtures, row)
	})
	return fixtures, nil
}

// deriveFixtureFields fills DateISO, DateTime and the win/loss/draw status
// from the raw date, time and score-cell class.
func deriveFixtureFields(row *FixtureRow) {
	if d, err := time.Parse("2 Jan 2006", row.Date); err == nil {
		row.DateISO = d.Format("2006-01-02")
		if row.Time != "" {
			if dt, err := time.Parse("2 Jan 2006 15:04", row.Date+" "+row.Time); err == nil {
				row.DateTime = dt.Format("2006-01-02T15:04:05")
			}
		}
	}

	switch {
	case strings.Contains(row.ScoreClass, "gms-win"):
		row.Status = "win"
	case strings.Contains(row.ScoreClass, "gms-loss"):
		row.Status = "loss"
	case strings.Contains(row.ScoreClass, "gms-draw"):
		row.Status = "draw"
	case strings.TrimSpace(row.Score) != "":
		row.Status = "result"
	default:
		row.Status = "pending"
	}
	row.Completed = row.Status != "pending"
}

// rowCells finds the row matching selector with data-team == teamID and
// returns its cell texts, or nil when absent.
func rowCells(doc *goquery.Document, selector, teamID string) []string {
	target := strings.ToLower(teamID)
	var cells []string
	doc.Find(selector).EachWithBreak(func(i int, tr *goquery.Selection) bool {
		if strings.ToLower(tr.AttrOr("data-team", "")) != target {
			return true
		}
		tr.Find("td").Each(func(j int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		return false
	})
	return cells
}

func cellText(cells []string, index int, fallback string) string {
	if index < len(cells) {
		return cells[index]
	}
	return fallback
}
