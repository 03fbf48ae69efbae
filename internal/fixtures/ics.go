package fixtures

import (
	"fmt"
	"strings"
	"time"
)

// matchDuration is the calendar block reserved per fixture.
const matchDuration = 2 * time.Hour

// GenerateICS renders fixtures as an iCalendar feed so club members can
// subscribe from their phone calendars. Fixtures with unparseable dates are
// skipped; cancelled fixtures are kept with a CANCELLED status so earlier
// imports get revoked.
func GenerateICS(fixtures []Fixture, clubName string, now time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString(fmt.Sprintf("PRODID:-//%s//clubfeed//EN\r\n", escapeICS(clubName)))
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	stamp := formatICSTime(now)
	for _, f := range fixtures {
		start, err := FixtureTime(f)
		if err != nil {
			continue
		}

		ics.WriteString("BEGIN:VEVENT\r\n")
		ics.WriteString(fmt.Sprintf("UID:%s@stalbanshc.co.uk\r\n", f.FixtureID))
		ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))
		ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(start)))
		ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(start.Add(matchDuration))))

		summary := fmt.Sprintf("%s v %s (%s)", f.HomeTeam, f.AwayTeam, f.Team)
		ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(summary)))

		description := f.Competition
		if label := DivisionLabel(f); label != "" {
			description = fmt.Sprintf("%s - %s", description, label)
		}
		ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description)))

		if f.Location != "" {
			ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(f.Location)))
		}

		status := "CONFIRMED"
		if f.Status == "Cancelled/Postponed" {
			status = "CANCELLED"
		}
		ics.WriteString(fmt.Sprintf("STATUS:%s\r\n", status))
		ics.WriteString("SEQUENCE:0\r\n")
		ics.WriteString("TRANSP:OPAQUE\r\n")
		ics.WriteString("END:VEVENT\r\n")
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
