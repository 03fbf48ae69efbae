package export

import (
	"context"

	"github.com/stalbanshc/clubfeed/internal/config"
	"github.com/stalbanshc/clubfeed/internal/snapshot"
)

// BulkOptions configures one bulk export run.
type BulkOptions struct {
	Entries      []config.TeamEntry
	OutputPath   string
	PublishPath  string // defaults to OutputPath
	PreviousPath string // defaults to <publish>.prev.json
	Rotate       bool
	SnapshotDate string
}

// BulkResult reports the outcome of one bulk export run.
type BulkResult struct {
	Results      []any
	FallbackUsed []string
	Failed       int
	WrittenPath  string // staging path when rotation auto-staged
	Staged       bool
	Rotated      bool
}

// RunBulk executes the full pipeline: fetch-build-retry, fallback
// reconciliation against the published snapshot, snapshot write, and rotation
// of current/previous when requested. Rotation is skipped whenever any entry
// remains in the error state, so a published snapshot is never replaced by a
// partial one.
func (o *Orchestrator) RunBulk(ctx context.Context, opts BulkOptions) (*BulkResult, error) {
	publishPath := opts.PublishPath
	if publishPath == "" {
		publishPath = opts.OutputPath
	}
	previousPath := opts.PreviousPath
	if previousPath == "" {
		previousPath = snapshot.QualifiedPath(publishPath, "prev")
	}

	targetPath := opts.OutputPath
	staged := false
	if opts.Rotate && targetPath == publishPath {
		// Rotation renames the target over the publish path; stage the
		// fresh snapshot beside it so the rename has a distinct source.
		targetPath = snapshot.QualifiedPath(publishPath, "new")
		staged = true
	}

	state := o.Run(ctx, opts.Entries, opts.SnapshotDate)
	results, fallbackUsed := o.Reconcile(state, publishPath, opts.SnapshotDate)

	if err := snapshot.Write(targetPath, results); err != nil {
		return nil, err
	}

	result := &BulkResult{
		Results:      results,
		FallbackUsed: fallbackUsed,
		Failed:       state.FailedCount(),
		WrittenPath:  targetPath,
		Staged:       staged,
	}

	if len(fallbackUsed) > 0 {
		o.logger.Info().
			Strs("teams", fallbackUsed).
			Str("snapshot", publishPath).
			Msg("used fallback records")
	}

	if opts.Rotate {
		if result.Failed > 0 {
			o.logger.Warn().
				Int("remaining", result.Failed).
				Msg("skipping snapshot rotation: some teams could not be fetched")
			return result, nil
		}
		if err := snapshot.Rotate(targetPath, publishPath, previousPath); err != nil {
			return nil, err
		}
		result.Rotated = true
		o.logger.Info().
			Str("current", publishPath).
			Str("previous", previousPath).
			Msg("snapshot rotation complete")
	}

	return result, nil
}
