package team

import (
	"testing"

	"github.com/stalbanshc/clubfeed/internal/config"
	"github.com/stalbanshc/clubfeed/internal/gms"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		entry config.TeamEntry
		index int
		want  string
	}{
		{"both present", config.TeamEntry{TeamID: "t1", CompID: "c1"}, 0, "t1::c1"},
		{"missing team", config.TeamEntry{CompID: "c1"}, 2, "team-2::c1"},
		{"missing comp", config.TeamEntry{TeamID: "t1"}, 3, "t1::comp-3"},
		{"missing both", config.TeamEntry{}, 5, "team-5::comp-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.entry, tt.index); got != tt.want {
				t.Errorf("Key = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyPlaceholdersStayDistinct(t *testing.T) {
	a := Key(config.TeamEntry{}, 0)
	b := Key(config.TeamEntry{}, 1)
	if a == b {
		t.Errorf("entries without identifiers must not collide: %q == %q", a, b)
	}
}

func TestCanonicalDisplayName(t *testing.T) {
	tests := []struct {
		reported string
		want     string
	}{
		{"St Albans (M)", "St Albans 1"},
		{"st albans (m)", "St Albans 1"},
		{"  ST ALBANS (M)  ", "St Albans 1"},
		{"St Albans 2", "St Albans 2"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CanonicalDisplayName(tt.reported); got != tt.want {
			t.Errorf("CanonicalDisplayName(%q) = %q, want %q", tt.reported, got, tt.want)
		}
	}
}

func TestFromSummary(t *testing.T) {
	entry := config.TeamEntry{
		Name:      "Mens 1s",
		TeamID:    "t1",
		CompID:    "c1",
		CompLabel: "Premier Division",
	}
	summary := &gms.TeamSummary{
		TeamName: "St Albans 1",
		Played:   "10",
		Points:   "20",
		PPG:      "2.00",
		Form:     []gms.FormEntry{{Result: "W"}, {Result: "D"}},
	}

	record := FromSummary(entry, summary)

	if record.Name != "Mens 1s" {
		t.Errorf("name = %q", record.Name)
	}
	if record.TeamDisplay != "St Albans 1" {
		t.Errorf("teamDisplay = %q", record.TeamDisplay)
	}
	if record.Competition.ID != "c1" || record.Competition.Label != "Premier Division" {
		t.Errorf("competition = %+v", record.Competition)
	}
	if record.Stats.Played != "10" || record.Stats.PPG != "2.00" {
		t.Errorf("stats = %+v", record.Stats)
	}
	if len(record.Form) != 2 {
		t.Errorf("form length = %d, want 2", len(record.Form))
	}
}

func TestFromSummaryNameFallbacks(t *testing.T) {
	record := FromSummary(config.TeamEntry{}, &gms.TeamSummary{TeamName: "Reported"})
	if record.Name != "Reported" || record.TeamDisplay != "Reported" {
		t.Errorf("expected reported name fallback, got name=%q display=%q", record.Name, record.TeamDisplay)
	}

	record = FromSummary(config.TeamEntry{}, &gms.TeamSummary{})
	if record.Name != "Unknown Team" {
		t.Errorf("name = %q, want Unknown Team", record.Name)
	}
	if record.Form == nil {
		t.Error("form must never be nil in an exported record")
	}
}

func TestNewErrorRecord(t *testing.T) {
	rec := NewErrorRecord(config.TeamEntry{TeamID: "t1", CompID: "c1"}, "boom")
	if rec.Name != "Unknown Team" {
		t.Errorf("name = %q, want Unknown Team", rec.Name)
	}
	if rec.Error != "boom" || rec.TeamID != "t1" || rec.CompID != "c1" {
		t.Errorf("unexpected error record: %+v", rec)
	}
}

func TestStampSnapshotDate(t *testing.T) {
	var record Record
	record.StampSnapshotDate("")
	if record.Meta != nil {
		t.Error("empty date must not allocate meta")
	}

	record.StampSnapshotDate("2025-11-29")
	if record.Meta == nil || record.Meta.SnapshotDate != "2025-11-29" {
		t.Errorf("meta = %+v", record.Meta)
	}
}
