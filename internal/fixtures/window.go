package fixtures

import (
	"fmt"
	"time"
)

// fringe widens windows on both sides so fixtures recorded in local UK time
// (BST/GMT) still land inside a UTC window.
const fringe = 2 * time.Hour

// Window is a half-open UTC time range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(w.Start) && t.Before(w.End)
}

// WeekendWindow computes the reporting window for the weekend relevant to
// now: Saturday itself on a Saturday, the previous day's Saturday on a
// Sunday (the weekend still in progress), and the upcoming Saturday on
// weekdays. The window spans Saturday 00:00Z through Monday 00:00Z, widened
// by the BST/GMT fringe on both sides.
func WeekendWindow(now time.Time) Window {
	now = now.UTC()

	var saturday time.Time
	switch now.Weekday() {
	case time.Sunday:
		saturday = midnight(now.AddDate(0, 0, -1))
	case time.Saturday:
		saturday = midnight(now)
	default:
		daysAhead := int(time.Saturday - now.Weekday())
		saturday = midnight(now.AddDate(0, 0, daysAhead))
	}

	monday := saturday.AddDate(0, 0, 2)
	return Window{Start: saturday.Add(-fringe), End: monday.Add(fringe)}
}

// DateRangeWindow builds a window from an inclusive dd/mm/YYYY date range,
// widened by the BST/GMT fringe.
func DateRangeWindow(startStr, endStr string) (Window, error) {
	start, err := time.Parse("02/01/2006", startStr)
	if err != nil {
		return Window{}, fmt.Errorf("invalid start date %q, expected dd/mm/YYYY: %w", startStr, err)
	}
	end, err := time.Parse("02/01/2006", endStr)
	if err != nil {
		return Window{}, fmt.Errorf("invalid end date %q, expected dd/mm/YYYY: %w", endStr, err)
	}

	return Window{
		Start: start.UTC().Add(-fringe),
		End:   end.UTC().AddDate(0, 0, 1).Add(fringe),
	}, nil
}

// FixtureTime parses a fixture's date field. The feed usually emits RFC3339
// with an explicit offset; bare local datetimes are treated as UTC.
func FixtureTime(f Fixture) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, f.Date); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", f.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable fixture date %q: %w", f.Date, err)
	}
	return t.UTC(), nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
