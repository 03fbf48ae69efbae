package fixtures

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
	"unicode"
)

// IsKids reports whether a fixture belongs to the junior section: the feed
// marks these with a null division, or an age band (u16/u18) in either team
// name.
func IsKids(f Fixture) bool {
	if f.Division == nil {
		return true
	}
	home := strings.ToLower(f.HomeTeam)
	away := strings.ToLower(f.AwayTeam)
	for _, band := range []string{"u16", "u18"} {
		if strings.Contains(home, band) || strings.Contains(away, band) {
			return true
		}
	}
	return false
}

// HasTBCKickoff reports whether the kickoff time is still to be confirmed.
func HasTBCKickoff(f Fixture) bool {
	return strings.EqualFold(strings.TrimSpace(f.Kickoff), "tbc")
}

// FilterWindow keeps fixtures inside the window, excluding kids fixtures,
// TBC kickoffs, and fixtures with unparseable dates.
func FilterWindow(fixtures []Fixture, w Window) []Fixture {
	kept := make([]Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		if IsKids(f) || HasTBCKickoff(f) {
			continue
		}
		t, err := FixtureTime(f)
		if err != nil {
			continue
		}
		if w.Contains(t) {
			kept = append(kept, f)
		}
	}
	return kept
}

// LoadExclusions reads a persisted set of fixture IDs to drop from output.
// The file may be a JSON array of IDs or an object with a "fixtureIds" list;
// a missing or unreadable file yields an empty set.
func LoadExclusions(path string) map[string]bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return map[string]bool{}
	}

	var ids []json.RawMessage
	if err := json.Unmarshal(data, &ids); err != nil {
		var wrapper struct {
			FixtureIDs []json.RawMessage `json:"fixtureIds"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return map[string]bool{}
		}
		ids = wrapper.FixtureIDs
	}

	excluded := make(map[string]bool, len(ids))
	for _, raw := range ids {
		if id := rawString(raw); id != "" {
			excluded[id] = true
		}
	}
	return excluded
}

// ApplyExclusions drops fixtures whose ID is in the excluded set. Fixtures
// without an ID are kept.
func ApplyExclusions(fixtures []Fixture, excluded map[string]bool) []Fixture {
	if len(excluded) == 0 {
		return fixtures
	}
	kept := make([]Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		if f.FixtureID != "" && excluded[f.FixtureID] {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// Gender classifies a fixture as "men" or "women" from its competition name,
// falling back to the team-name prefix and defaulting to men.
func Gender(f Fixture) string {
	competition := strings.ToLower(f.Competition)
	switch {
	case strings.Contains(competition, "women") || strings.Contains(competition, "girls"):
		return "women"
	case strings.Contains(competition, "men") || strings.Contains(competition, "boys"):
		return "men"
	case strings.HasPrefix(f.Team, "Women's"):
		return "women"
	default:
		return "men"
	}
}

// SplitByGender partitions fixtures into men's and women's lists.
func SplitByGender(fixtures []Fixture) (mens, womens []Fixture) {
	for _, f := range fixtures {
		if Gender(f) == "women" {
			womens = append(womens, f)
		} else {
			mens = append(mens, f)
		}
	}
	return mens, womens
}

// IsHome reports whether the club is at home for a fixture. When the feed's
// home/away marker is absent it falls back to substring-matching the club
// name against the home side. Known limitation: the substring match
// misclassifies when both sides share the club-name substring.
func IsHome(f Fixture, clubName string) bool {
	if f.HA != "" {
		return f.HA == "h"
	}
	return strings.Contains(strings.ToLower(f.HomeTeam), strings.ToLower(clubName))
}

// teamNumber extracts the squad number embedded in a team name ("Men's 3s"
// -> 3). Returns ok=false when the name carries no digits.
func teamNumber(team string) (int, bool) {
	n := 0
	found := false
	for _, r := range team {
		if unicode.IsDigit(r) {
			n = n*10 + int(r-'0')
			found = true
		}
	}
	return n, found
}

// SortByTeamNumber orders fixtures by the squad number in the team name,
// with unnumbered teams last. Stable so feed order breaks ties.
func SortByTeamNumber(fixtures []Fixture) {
	sort.SliceStable(fixtures, func(i, j int) bool {
		ni, oki := teamNumber(fixtures[i].Team)
		nj, okj := teamNumber(fixtures[j].Team)
		if oki != okj {
			return oki
		}
		return ni < nj
	})
}

// DivisionLabel renders a fixture's division for display: friendlies carry
// no division in the feed.
func DivisionLabel(f Fixture) string {
	if f.CompetitionID == "f" {
		return "Friendly"
	}
	if f.Division == nil || *f.Division == "" {
		return "Friendly"
	}
	return *f.Division
}
