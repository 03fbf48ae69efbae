package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Analysis summarizes one snapshot for validation.
type Analysis struct {
	Count      int
	TeamIDs    map[string]bool
	Errors     []string // names of error-tagged records
	MissingPPG []string // names of non-error records without a ppg stat
}

// recordView is the subset of record fields validation inspects.
type recordView struct {
	Name   string `json:"name"`
	TeamID string `json:"teamId"`
	Error  string `json:"error"`
	Stats  struct {
		PPG string `json:"ppg"`
	} `json:"stats"`
}

// Analyze computes validation statistics for a snapshot's records.
func Analyze(records []json.RawMessage) Analysis {
	analysis := Analysis{TeamIDs: make(map[string]bool)}
	analysis.Count = len(records)

	for _, raw := range records {
		var view recordView
		if err := json.Unmarshal(raw, &view); err != nil {
			continue
		}

		name := view.Name
		if name == "" {
			name = view.TeamID
		}
		if name == "" {
			name = "Unknown"
		}

		if view.TeamID != "" {
			analysis.TeamIDs[view.TeamID] = true
		}
		if view.Error != "" {
			analysis.Errors = append(analysis.Errors, name)
			continue
		}
		if view.Stats.PPG == "" {
			analysis.MissingPPG = append(analysis.MissingPPG, name)
		}
	}
	return analysis
}

// Validate checks the current snapshot (and, when present, the previous one)
// for anomalies before publishing. All checks run independently; every issue
// found is reported rather than stopping at the first.
func Validate(currentPath, previousPath string, expectedCount int) ([]string, error) {
	currentRecords, err := Read(currentPath)
	if err != nil {
		return nil, err
	}
	current := Analyze(currentRecords)

	var issues []string
	if expectedCount > 0 && current.Count != expectedCount {
		issues = append(issues, fmt.Sprintf(
			"Current snapshot count %d != expected %d", current.Count, expectedCount))
	}
	if len(current.Errors) > 0 {
		issues = append(issues, fmt.Sprintf(
			"Current snapshot has %d error entrie(s): %s",
			len(current.Errors), joinSample(current.Errors)))
	}
	if len(current.MissingPPG) > 0 {
		issues = append(issues, fmt.Sprintf(
			"Current snapshot missing PPG for %d team(s): %s",
			len(current.MissingPPG), joinSample(current.MissingPPG)))
	}

	if previousPath != "" {
		if _, statErr := os.Stat(previousPath); statErr == nil {
			previousRecords, err := Read(previousPath)
			if err != nil {
				return nil, err
			}
			previous := Analyze(previousRecords)

			if expectedCount > 0 && previous.Count != expectedCount {
				issues = append(issues, fmt.Sprintf(
					"Previous snapshot count %d != expected %d", previous.Count, expectedCount))
			}

			missingFromCurrent := idDiff(previous.TeamIDs, current.TeamIDs)
			missingFromPrevious := idDiff(current.TeamIDs, previous.TeamIDs)
			if len(missingFromCurrent) > 0 {
				issues = append(issues, fmt.Sprintf(
					"Current snapshot missing %d teamId(s) found in previous snapshot: %s",
					len(missingFromCurrent), joinSample(missingFromCurrent)))
			}
			if len(missingFromPrevious) > 0 {
				issues = append(issues, fmt.Sprintf(
					"Previous snapshot missing %d teamId(s) present now: %s",
					len(missingFromPrevious), joinSample(missingFromPrevious)))
			}
		} else {
			issues = append(issues, fmt.Sprintf("Previous snapshot not found at %s", previousPath))
		}
	}

	return issues, nil
}

// idDiff returns the IDs present in a but not in b, sorted.
func idDiff(a, b map[string]bool) []string {
	var diff []string
	for id := range a {
		if !b[id] {
			diff = append(diff, id)
		}
	}
	sort.Strings(diff)
	return diff
}

// joinSample joins at most five names for a readable issue line.
func joinSample(names []string) string {
	if len(names) > 5 {
		names = names[:5]
	}
	return strings.Join(names, ", ")
}
