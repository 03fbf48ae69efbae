package main

import (
	"testing"
	"time"

	"github.com/stalbanshc/clubfeed/internal/gms"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return d
}

func TestWeekendRange(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		now       string
		wantStart string
		wantEnd   string
	}{
		{
			name:      "explicit reference",
			reference: "2025-11-22",
			now:       "2025-12-25",
			wantStart: "2025-11-22",
			wantEnd:   "2025-11-23",
		},
		{
			name:      "wednesday looks back",
			now:       "2025-12-03",
			wantStart: "2025-11-29",
			wantEnd:   "2025-11-30",
		},
		{
			name:      "saturday resolves to the previous weekend",
			now:       "2025-11-29",
			wantStart: "2025-11-22",
			wantEnd:   "2025-11-23",
		},
		{
			name:      "sunday uses yesterday's saturday",
			now:       "2025-11-30",
			wantStart: "2025-11-29",
			wantEnd:   "2025-11-30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := weekendRange(tt.reference, date(t, tt.now))
			if err != nil {
				t.Fatalf("weekendRange failed: %v", err)
			}
			if !start.Equal(date(t, tt.wantStart)) {
				t.Errorf("start = %v, want %s", start, tt.wantStart)
			}
			if !end.Equal(date(t, tt.wantEnd)) {
				t.Errorf("end = %v, want %s", end, tt.wantEnd)
			}
		})
	}
}

func TestWeekendRangeRejectsBadReference(t *testing.T) {
	if _, _, err := weekendRange("22/11/2025", time.Now()); err == nil {
		t.Error("expected an error for a non YYYY-MM-DD reference")
	}
}

func TestWeekendRows(t *testing.T) {
	rows := []gms.FixtureRow{
		{DateISO: "2025-11-22", HomeTeam: "saturday match"},
		{DateISO: "2025-11-23", HomeTeam: "sunday match"},
		{DateISO: "2025-11-21", HomeTeam: "friday match"},
		{DateISO: "", HomeTeam: "undated"},
		{DateISO: "not-a-date", HomeTeam: "garbage"},
	}

	kept := weekendRows(rows, date(t, "2025-11-22"), date(t, "2025-11-23"))
	if len(kept) != 2 {
		t.Fatalf("kept %d rows, want 2: %+v", len(kept), kept)
	}
	if kept[0].HomeTeam != "saturday match" || kept[1].HomeTeam != "sunday match" {
		t.Errorf("unexpected rows kept: %+v", kept)
	}
}
