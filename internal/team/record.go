// Package team provides the per-team record model and the builder that
// turns a configured team entry plus live feed data into a normalized record.
//
// Stats are kept as the raw strings the feed reports; the upstream does not
// guarantee numeric formatting, so parsing to numbers is deferred to the
// display layer.
package team

import (
	"fmt"
	"strings"

	"github.com/stalbanshc/clubfeed/internal/config"
	"github.com/stalbanshc/clubfeed/internal/gms"
)

// Competition identifies the competition a record belongs to.
type Competition struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// Stats holds the league-table columns for one team.
type Stats struct {
	Played       string `json:"played"`
	Won          string `json:"won"`
	Drawn        string `json:"drawn"`
	Lost         string `json:"lost"`
	GoalsFor     string `json:"goalsFor"`
	GoalsAgainst string `json:"goalsAgainst"`
	GoalDiff     string `json:"goalDiff"`
	Points       string `json:"points"`
	PPG          string `json:"ppg"`
}

// Meta records provenance for a snapshot entry. Source is "fallback" when
// the record was substituted from a previously published snapshot.
type Meta struct {
	SnapshotDate      string `json:"snapshotDate,omitempty"`
	Source            string `json:"source,omitempty"`
	FallbackSnapshot  string `json:"fallbackSnapshot,omitempty"`
	FallbackAppliedAt string `json:"fallbackAppliedAt,omitempty"`
}

// Record is the per-team result unit in an exported snapshot.
type Record struct {
	Name        string          `json:"name"`
	TeamID      string          `json:"teamId"`
	TeamDisplay string          `json:"teamDisplay"`
	Competition Competition     `json:"competition"`
	Stats       Stats           `json:"stats"`
	Form        []gms.FormEntry `json:"form"`
	Meta        *Meta           `json:"meta,omitempty"`
}

// ErrorRecord is emitted when both the live fetch and fallback substitution
// fail for a configured entry.
type ErrorRecord struct {
	Name   string `json:"name"`
	TeamID string `json:"teamId"`
	CompID string `json:"compId"`
	Error  string `json:"error"`
}

// Key synthesizes the composite key correlating a config entry with its
// fetch outcome. Positional placeholders keep entries with missing
// identifiers distinguishable.
func Key(entry config.TeamEntry, index int) string {
	teamID := entry.TeamID
	if teamID == "" {
		teamID = fmt.Sprintf("team-%d", index)
	}
	compID := entry.CompID
	if compID == "" {
		compID = fmt.Sprintf("comp-%d", index)
	}
	return teamID + "::" + compID
}

// NewErrorRecord builds an ErrorRecord for entry with the given message.
func NewErrorRecord(entry config.TeamEntry, message string) *ErrorRecord {
	name := entry.Name
	if name == "" {
		name = "Unknown Team"
	}
	return &ErrorRecord{
		Name:   name,
		TeamID: entry.TeamID,
		CompID: entry.CompID,
		Error:  message,
	}
}

// displayAliases maps upstream-reported team names (lowercased) to the
// canonical display name. An explicit, auditable exception list, not a
// general normalization rule.
var displayAliases = map[string]string{
	"st albans (m)": "St Albans 1",
}

// CanonicalDisplayName substitutes a canonical name when the reported name
// case-insensitively matches a known alias.
func CanonicalDisplayName(reported string) string {
	if canonical, ok := displayAliases[strings.ToLower(strings.TrimSpace(reported))]; ok {
		return canonical
	}
	return reported
}

// FromSummary builds a Record from a config entry and its parsed summary.
func FromSummary(entry config.TeamEntry, summary *gms.TeamSummary) *Record {
	name := entry.Name
	if name == "" {
		name = summary.TeamName
	}
	if name == "" {
		name = "Unknown Team"
	}

	display := summary.TeamName
	if display == "" {
		display = name
	}

	form := summary.Form
	if form == nil {
		form = []gms.FormEntry{}
	}

	return &Record{
		Name:        name,
		TeamID:      entry.TeamID,
		TeamDisplay: display,
		Competition: Competition{
			ID:    entry.CompID,
			Label: entry.CompLabel,
		},
		Stats: Stats{
			Played:       summary.Played,
			Won:          summary.Won,
			Drawn:        summary.Drawn,
			Lost:         summary.Lost,
			GoalsFor:     summary.GoalsFor,
			GoalsAgainst: summary.GoalsAgainst,
			GoalDiff:     summary.GoalDiff,
			Points:       summary.Points,
			PPG:          summary.PPG,
		},
		Form: form,
	}
}

// StampSnapshotDate records the snapshot date in the record's meta.
func (r *Record) StampSnapshotDate(date string) {
	if date == "" {
		return
	}
	if r.Meta == nil {
		r.Meta = &Meta{}
	}
	r.Meta.SnapshotDate = date
}
