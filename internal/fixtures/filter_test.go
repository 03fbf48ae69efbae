package fixtures

import (
	"os"
	"path/filepath"
	"testing"
)

func strptr(s string) *string { return &s }

func TestIsKids(t *testing.T) {
	tests := []struct {
		name    string
		fixture Fixture
		want    bool
	}{
		{"null division", Fixture{Division: nil}, true},
		{"u16 home team", Fixture{Division: strptr("East"), HomeTeam: "Harpenden U16A"}, true},
		{"u18 away team", Fixture{Division: strptr("East"), AwayTeam: "St Albans U18"}, true},
		{"case insensitive band", Fixture{Division: strptr("East"), HomeTeam: "Blueharts u16"}, true},
		{"adult fixture", Fixture{Division: strptr("East"), HomeTeam: "St Albans 1", AwayTeam: "Blueharts 1"}, false},
		{"empty division is adult", Fixture{Division: strptr("")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsKids(tt.fixture); got != tt.want {
				t.Errorf("IsKids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasTBCKickoff(t *testing.T) {
	tests := []struct {
		kickoff string
		want    bool
	}{
		{"TBC", true},
		{"tbc", true},
		{" tbc ", true},
		{"14:00", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := HasTBCKickoff(Fixture{Kickoff: tt.kickoff}); got != tt.want {
			t.Errorf("HasTBCKickoff(%q) = %v, want %v", tt.kickoff, got, tt.want)
		}
	}
}

func TestFilterWindow(t *testing.T) {
	w, err := DateRangeWindow("29/11/2025", "30/11/2025")
	if err != nil {
		t.Fatal(err)
	}

	fixtures := []Fixture{
		{Date: "2025-11-29T14:00:00Z", Division: strptr("East"), Team: "Men's 1s", Kickoff: "14:00"},
		{Date: "2025-11-29T14:00:00Z", Division: nil, Team: "U16 Boys"},                               // kids
		{Date: "2025-11-29T14:00:00Z", Division: strptr("East"), Team: "Men's 2s", Kickoff: "TBC"},    // unconfirmed
		{Date: "2025-12-06T14:00:00Z", Division: strptr("East"), Team: "Men's 3s", Kickoff: "12:00"},  // outside window
		{Date: "when we feel like it", Division: strptr("East"), Team: "Men's 4s", Kickoff: "12:00"},  // unparseable
	}

	kept := FilterWindow(fixtures, w)
	if len(kept) != 1 {
		t.Fatalf("kept %d fixtures, want 1: %+v", len(kept), kept)
	}
	if kept[0].Team != "Men's 1s" {
		t.Errorf("kept = %q", kept[0].Team)
	}
}

func TestLoadExclusions(t *testing.T) {
	dir := t.TempDir()

	arrayPath := filepath.Join(dir, "array.json")
	if err := os.WriteFile(arrayPath, []byte(`["abc", 123, null]`), 0644); err != nil {
		t.Fatal(err)
	}
	excluded := LoadExclusions(arrayPath)
	if !excluded["abc"] || !excluded["123"] {
		t.Errorf("array form not loaded: %v", excluded)
	}

	objectPath := filepath.Join(dir, "object.json")
	if err := os.WriteFile(objectPath, []byte(`{"fixtureIds": ["xyz"]}`), 0644); err != nil {
		t.Fatal(err)
	}
	excluded = LoadExclusions(objectPath)
	if !excluded["xyz"] {
		t.Errorf("object form not loaded: %v", excluded)
	}

	excluded = LoadExclusions(filepath.Join(dir, "absent.json"))
	if len(excluded) != 0 {
		t.Errorf("missing file should yield an empty set, got %v", excluded)
	}
}

func TestApplyExclusions(t *testing.T) {
	fixtures := []Fixture{
		{FixtureID: "keep"},
		{FixtureID: "drop"},
		{FixtureID: ""}, // no ID, always kept
	}

	kept := ApplyExclusions(fixtures, map[string]bool{"drop": true})
	if len(kept) != 2 {
		t.Fatalf("kept %d, want 2", len(kept))
	}
	for _, f := range kept {
		if f.FixtureID == "drop" {
			t.Error("excluded fixture survived")
		}
	}
}

func TestGender(t *testing.T) {
	tests := []struct {
		name    string
		fixture Fixture
		want    string
	}{
		{"women in competition", Fixture{Competition: "Women's League"}, "women"},
		{"girls in competition", Fixture{Competition: "Girls Cup"}, "women"},
		{"men in competition", Fixture{Competition: "Men's League"}, "men"},
		{"boys in competition", Fixture{Competition: "Boys Cup"}, "men"},
		{"team prefix fallback", Fixture{Competition: "Saturday League", Team: "Women's 2s"}, "women"},
		{"default is men", Fixture{Competition: "Saturday League", Team: "3rd XI"}, "men"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Gender(tt.fixture); got != tt.want {
				t.Errorf("Gender = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsHome(t *testing.T) {
	tests := []struct {
		name    string
		fixture Fixture
		want    bool
	}{
		{"explicit home marker", Fixture{HA: "h", HomeTeam: "Somewhere Else"}, true},
		{"explicit away marker", Fixture{HA: "a", HomeTeam: "St Albans 1"}, false},
		{"substring fallback home", Fixture{HomeTeam: "St Albans 2"}, true},
		{"substring fallback away", Fixture{HomeTeam: "Blueharts 1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHome(tt.fixture, "St Albans"); got != tt.want {
				t.Errorf("IsHome = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortByTeamNumber(t *testing.T) {
	fixtures := []Fixture{
		{Team: "Men's 3s"},
		{Team: "Badgers"},
		{Team: "Men's 1s"},
		{Team: "Men's 10s"},
		{Team: "Men's 2s"},
	}

	SortByTeamNumber(fixtures)

	want := []string{"Men's 1s", "Men's 2s", "Men's 3s", "Men's 10s", "Badgers"}
	for i, w := range want {
		if fixtures[i].Team != w {
			t.Errorf("position %d = %q, want %q", i, fixtures[i].Team, w)
		}
	}
}

func TestDivisionLabel(t *testing.T) {
	tests := []struct {
		name    string
		fixture Fixture
		want    string
	}{
		{"friendly competition id", Fixture{CompetitionID: "f", Division: strptr("East")}, "Friendly"},
		{"nil division", Fixture{Division: nil}, "Friendly"},
		{"empty division", Fixture{Division: strptr("")}, "Friendly"},
		{"named division", Fixture{Division: strptr("East Prem")}, "East Prem"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DivisionLabel(tt.fixture); got != tt.want {
				t.Errorf("DivisionLabel = %q, want %q", got, tt.want)
			}
		})
	}
}
