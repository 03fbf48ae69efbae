package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validSnapshot = `[
  {"name": "Mens 1s", "teamId": "A", "stats": {"ppg": "2.00"}},
  {"name": "Mens 2s", "teamId": "B", "stats": {"ppg": "1.50"}}
]`

func writeSnapshot(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(validSnapshot), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestSuccessLinesWithPrevious(t *testing.T) {
	dir := t.TempDir()
	current := filepath.Join(dir, "teamData.json")
	previous := filepath.Join(dir, "teamData.prev.json")
	writeSnapshot(t, current)
	writeSnapshot(t, previous)

	lines, err := successLines(current, previous)
	if err != nil {
		t.Fatalf("successLines failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "validation passed") || !strings.Contains(lines[0], "(2 teams)") {
		t.Errorf("current line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Previous snapshot") || !strings.Contains(lines[1], "(2 teams)") {
		t.Errorf("previous line = %q", lines[1])
	}
}

func TestSuccessLinesWithoutPrevious(t *testing.T) {
	dir := t.TempDir()
	current := filepath.Join(dir, "teamData.json")
	writeSnapshot(t, current)

	lines, err := successLines(current, filepath.Join(dir, "absent.prev.json"))
	if err != nil {
		t.Fatalf("successLines failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want only the current report: %v", len(lines), lines)
	}
}
