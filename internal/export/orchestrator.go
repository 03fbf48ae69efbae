// Package export drives the bulk fetch across all configured teams: build,
// bounded retry, fallback substitution from the published snapshot, and
// current/previous rotation. Every configured entry produces exactly one
// output record (live, fallback, or error) in configuration order.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/stalbanshc/clubfeed/internal/config"
	"github.com/stalbanshc/clubfeed/internal/snapshot"
	"github.com/stalbanshc/clubfeed/internal/team"
)

const (
	// DefaultRetryRounds bounds the re-attempt loop after the initial pass.
	DefaultRetryRounds = 2
	// DefaultBackoffBase is multiplied by the round number for the
	// inter-round cool-down. Worst case added delay: 4s + 8s.
	DefaultBackoffBase = 4 * time.Second
)

// RecordBuilder builds the record for one config entry. Satisfied by
// *team.Builder; tests substitute a scripted stub.
type RecordBuilder interface {
	Build(ctx context.Context, entry config.TeamEntry, index int) (*team.Record, error)
}

// Orchestrator runs the fetch-build-retry loop sequentially over the
// configured teams, relying on the client's shared rate-limit window for
// throttling. There is no parallel fan-out.
type Orchestrator struct {
	builder     RecordBuilder
	retryRounds int
	backoffBase time.Duration
	now         func() time.Time
	sleep       func(time.Duration)
	logger      zerolog.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithRetrySchedule overrides the retry round count and backoff base.
func WithRetrySchedule(rounds int, backoffBase time.Duration) Option {
	return func(o *Orchestrator) {
		o.retryRounds = rounds
		o.backoffBase = backoffBase
	}
}

// WithClock injects a fake clock and sleeper for tests.
func WithClock(now func() time.Time, sleep func(time.Duration)) Option {
	return func(o *Orchestrator) {
		o.now = now
		o.sleep = sleep
	}
}

// WithLogger sets the orchestrator's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates an Orchestrator around builder.
func New(builder RecordBuilder, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		builder:     builder,
		retryRounds: DefaultRetryRounds,
		backoffBase: DefaultBackoffBase,
		now:         time.Now,
		sleep:       time.Sleep,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// failure tracks one entry that has not yet produced a record.
type failure struct {
	entry       config.TeamEntry
	index       int
	message     string
	configError bool // missing identifiers, never retried
}

// RunState partitions the configured entries into successes and failures,
// keyed by composite key, with the original ordering retained so the final
// output is reconstructable from keys alone.
type RunState struct {
	Entries  []config.TeamEntry
	Keys     []string
	Records  map[string]*team.Record
	failures map[string]*failure
}

// FailedCount reports how many entries still lack a record.
func (s *RunState) FailedCount() int {
	return len(s.failures)
}

// Run performs the initial build pass over every entry in order, then
// re-attempts still-failing entries for up to the configured retry rounds,
// cooling down backoffBase*round between rounds. Configuration errors are
// never re-attempted.
func (o *Orchestrator) Run(ctx context.Context, entries []config.TeamEntry, snapshotDate string) *RunState {
	state := &RunState{
		Entries:  entries,
		Keys:     make([]string, 0, len(entries)),
		Records:  make(map[string]*team.Record),
		failures: make(map[string]*failure),
	}

	for i, entry := range entries {
		index := i + 1
		key := team.Key(entry, index)
		state.Keys = append(state.Keys, key)
		o.attempt(ctx, state, key, entry, index, snapshotDate)
	}

	if len(state.failures) > 0 {
		o.logger.Warn().
			Int("missing", len(state.failures)).
			Msg("initial fetch incomplete, retrying")
	}

	for round := 1; round <= o.retryRounds && o.retryable(state) > 0; round++ {
		o.sleep(o.backoffBase * time.Duration(round))
		for i, key := range state.Keys {
			f, ok := state.failures[key]
			if !ok || f.configError {
				continue
			}
			o.attempt(ctx, state, key, state.Entries[i], f.index, snapshotDate)
		}
	}

	return state
}

// attempt builds one entry and records the outcome in state.
func (o *Orchestrator) attempt(ctx context.Context, state *RunState, key string, entry config.TeamEntry, index int, snapshotDate string) {
	rec, err := o.builder.Build(ctx, entry, index)
	if err != nil {
		state.failures[key] = &failure{
			entry:       entry,
			index:       index,
			message:     err.Error(),
			configError: errors.Is(err, team.ErrMissingIdentifiers),
		}
		return
	}
	rec.StampSnapshotDate(snapshotDate)
	state.Records[key] = rec
	delete(state.failures, key)
}

// retryable counts failures eligible for another round.
func (o *Orchestrator) retryable(state *RunState) int {
	n := 0
	for _, f := range state.failures {
		if !f.configError {
			n++
		}
	}
	return n
}

// Reconcile substitutes fallback records from the published snapshot for any
// entry still failing, then rebuilds the final ordered result list: live
// record, else fallback record, else error record. The returned list always
// has one element per configured entry. Fallback records are copied as
// untyped JSON so fields the current release does not model survive the
// substitution.
func (o *Orchestrator) Reconcile(state *RunState, publishedPath, snapshotDate string) ([]any, []string) {
	var fallbackUsed []string
	substituted := make(map[string]map[string]any)

	if len(state.failures) > 0 && publishedPath != "" {
		if _, err := os.Stat(publishedPath); err == nil {
			fallback := snapshot.FallbackMap(publishedPath)
			for _, key := range state.Keys {
				f, ok := state.failures[key]
				if !ok || f.entry.TeamID == "" {
					continue
				}
				raw, ok := fallback[f.entry.TeamID]
				if !ok {
					continue
				}

				// Unmarshaling the raw prior record is the deep copy:
				// nothing aliases the published snapshot afterwards.
				var rec map[string]any
				if err := json.Unmarshal(raw, &rec); err != nil {
					continue
				}
				meta, _ := rec["meta"].(map[string]any)
				if meta == nil {
					meta = make(map[string]any)
				}
				meta["source"] = "fallback"
				meta["fallbackSnapshot"] = publishedPath
				meta["fallbackAppliedAt"] = o.now().UTC().Format(time.RFC3339)
				if snapshotDate != "" {
					meta["snapshotDate"] = snapshotDate
				}
				rec["meta"] = meta

				substituted[key] = rec
				delete(state.failures, key)

				name := f.entry.Name
				if name == "" {
					name = f.entry.TeamID
				}
				fallbackUsed = append(fallbackUsed, name)
			}
		}
	}

	results := make([]any, 0, len(state.Keys))
	for i, key := range state.Keys {
		if rec, ok := state.Records[key]; ok {
			results = append(results, rec)
			continue
		}
		if rec, ok := substituted[key]; ok {
			results = append(results, rec)
			continue
		}
		message := "Unknown error"
		if f, ok := state.failures[key]; ok {
			message = f.message
		}
		results = append(results, team.NewErrorRecord(state.Entries[i], message))
	}
	return results, fallbackUsed
}
