package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestReadWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "teamData.json")

	records := []map[string]string{
		{"name": "Mens 1s", "teamId": "t1"},
		{"name": "Mens 2s", "teamId": "t2"},
	}
	require.NoError(t, Write(path, records))

	got, err := Read(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	var first map[string]string
	require.NoError(t, json.Unmarshal(got[0], &first))
	assert.Equal(t, "t1", first["teamId"])
}

func TestReadRejectsNonList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "teamData.json")
	writeFile(t, path, `{"name": "not a list"}`)

	_, err := Read(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list of team records")
}

func TestQualifiedPath(t *testing.T) {
	assert.Equal(t, "teamData.prev.json", QualifiedPath("teamData.json", "prev"))
	assert.Equal(t, "data/teamData.new.json", QualifiedPath("data/teamData.json", "new"))
	assert.Equal(t, "noext.prev", QualifiedPath("noext", "prev"))
}

func TestFallbackMap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "teamData.json")
	writeFile(t, path, `[
	  {"name": "Mens 1s", "teamId": "t1", "stats": {"played": "9"}},
	  {"name": "Mens 2s", "teamId": "t2", "error": "fetch failed"},
	  {"name": "No ID"}
	]`)

	fallback := FallbackMap(path)
	require.Len(t, fallback, 1, "error-tagged and id-less records must be skipped")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(fallback["t1"], &rec))
	assert.Equal(t, "Mens 1s", rec["name"])
}

func TestFallbackMapMissingFile(t *testing.T) {
	fallback := FallbackMap(filepath.Join(t.TempDir(), "absent.json"))
	assert.Empty(t, fallback)
	assert.NotNil(t, fallback)
}

func TestRotate(t *testing.T) {
	dir := t.TempDir()
	newPath := filepath.Join(dir, "teamData.new.json")
	currentPath := filepath.Join(dir, "teamData.json")
	previousPath := filepath.Join(dir, "teamData.prev.json")

	writeFile(t, newPath, `[{"teamId": "new"}]`)
	writeFile(t, currentPath, `[{"teamId": "old"}]`)

	require.NoError(t, Rotate(newPath, currentPath, previousPath))

	current, err := os.ReadFile(currentPath)
	require.NoError(t, err)
	assert.Contains(t, string(current), `"new"`)

	previous, err := os.ReadFile(previousPath)
	require.NoError(t, err)
	assert.Contains(t, string(previous), `"old"`)

	_, err = os.Stat(newPath)
	assert.True(t, os.IsNotExist(err), "staged file should be gone after promotion")
}

func TestRotateWithoutExistingCurrent(t *testing.T) {
	dir := t.TempDir()
	newPath := filepath.Join(dir, "teamData.new.json")
	currentPath := filepath.Join(dir, "teamData.json")
	previousPath := filepath.Join(dir, "teamData.prev.json")

	writeFile(t, newPath, `[{"teamId": "new"}]`)

	require.NoError(t, Rotate(newPath, currentPath, previousPath))

	_, err := os.Stat(currentPath)
	require.NoError(t, err)
	_, err = os.Stat(previousPath)
	assert.True(t, os.IsNotExist(err), "no previous snapshot should appear on first rotation")
}

func TestRotateMissingNewLeavesFilesAlone(t *testing.T) {
	dir := t.TempDir()
	newPath := filepath.Join(dir, "teamData.new.json")
	currentPath := filepath.Join(dir, "teamData.json")
	previousPath := filepath.Join(dir, "teamData.prev.json")

	writeFile(t, currentPath, `[{"teamId": "old"}]`)
	writeFile(t, previousPath, `[{"teamId": "older"}]`)

	err := Rotate(newPath, currentPath, previousPath)
	require.Error(t, err)

	current, readErr := os.ReadFile(currentPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(current), `"old"`)

	previous, readErr := os.ReadFile(previousPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(previous), `"older"`)
}
