// Package snapshot provides JSON persistence for exported team records plus
// the current/previous rotation and pre-publish validation used by the bulk
// export pipeline.
//
// A snapshot is an ordered JSON list of team records and error records.
// Records are handled as raw JSON so that fallback substitution never drops
// fields of a prior record, regardless of shape drift between releases.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Read loads a snapshot file. The file must contain a JSON list.
func Read(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("snapshot %s must contain a list of team records: %w", path, err)
	}
	return records, nil
}

// Write saves records as an indented JSON list, creating parent directories
// as needed.
func Write(path string, records any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// QualifiedPath derives a sibling path with a qualifier inserted before the
// extension: teamData.json + "prev" -> teamData.prev.json.
func QualifiedPath(base, qualifier string) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return stem + "." + qualifier + ext
}

// FallbackMap indexes a published snapshot's records by teamId for fallback
// lookup. A missing or unreadable snapshot yields an empty map. Error-tagged
// records are skipped: substituting a prior failure would not recover
// anything.
func FallbackMap(path string) map[string]json.RawMessage {
	records, err := Read(path)
	if err != nil {
		return map[string]json.RawMessage{}
	}

	fallback := make(map[string]json.RawMessage, len(records))
	for _, raw := range records {
		var view struct {
			TeamID string `json:"teamId"`
			Error  string `json:"error"`
		}
		if err := json.Unmarshal(raw, &view); err != nil {
			continue
		}
		if view.TeamID == "" || view.Error != "" {
			continue
		}
		fallback[view.TeamID] = raw
	}
	return fallback
}

// Rotate promotes newPath to currentPath, demoting the old current to
// previousPath first. It fails without touching current or previous when
// newPath does not exist. A crash between the two renames leaves current
// absent but the new snapshot still at newPath, so re-running the rotation
// recovers.
func Rotate(newPath, currentPath, previousPath string) error {
	if _, err := os.Stat(newPath); err != nil {
		return fmt.Errorf("new snapshot %s does not exist: %w", newPath, err)
	}

	if _, err := os.Stat(currentPath); err == nil {
		if dir := filepath.Dir(previousPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("creating previous snapshot directory: %w", err)
			}
		}
		if err := os.Rename(currentPath, previousPath); err != nil {
			return fmt.Errorf("demoting current snapshot: %w", err)
		}
	}

	if dir := filepath.Dir(currentPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating current snapshot directory: %w", err)
		}
	}
	if err := os.Rename(newPath, currentPath); err != nil {
		return fmt.Errorf("promoting new snapshot: %w", err)
	}
	return nil
}
