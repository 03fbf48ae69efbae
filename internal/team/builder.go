package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/stalbanshc/clubfeed/internal/config"
	"github.com/stalbanshc/clubfeed/internal/gms"
)

// ErrMissingIdentifiers marks a configuration error: the entry lacks a team
// or competition identifier. Never retried, unlike transient fetch failures.
var ErrMissingIdentifiers = errors.New("missing teamId or compId")

// SummaryFetcher fetches the parsed summary table for a team. Satisfied by
// *gms.Client; tests substitute a stub.
type SummaryFetcher interface {
	TeamSummary(ctx context.Context, teamID, compID string) (*gms.TeamSummary, error)
}

// Builder converts config entries into records via the fetch+parse pipeline.
type Builder struct {
	fetcher SummaryFetcher
}

// NewBuilder creates a Builder backed by the given fetcher.
func NewBuilder(fetcher SummaryFetcher) *Builder {
	return &Builder{fetcher: fetcher}
}

// Build fetches and normalizes the record for one config entry. Errors from
// the fetch+parse pipeline are tagged with the team's display name so bulk
// output stays attributable.
func (b *Builder) Build(ctx context.Context, entry config.TeamEntry, index int) (*Record, error) {
	name := entry.Name
	if name == "" {
		name = fmt.Sprintf("Team %d", index)
	}

	if entry.TeamID == "" || entry.CompID == "" {
		return nil, ErrMissingIdentifiers
	}

	// Bulk records come from the cross-competition summary; the record's
	// competition identity is taken from the config entry, not the fetch.
	summary, err := b.fetcher.TeamSummary(ctx, entry.TeamID, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	summary.TeamName = CanonicalDisplayName(summary.TeamName)
	return FromSummary(entry, summary), nil
}
