package matches

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFetchSavesTimestampedPage(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html>matches</html>"))
	}))
	defer server.Close()

	d := NewDownloader(server.URL)
	d.now = func() time.Time { return time.Date(2025, 11, 29, 8, 30, 0, 0, time.UTC) }

	dir := t.TempDir()
	path, err := d.Fetch(context.Background(), dir)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if filepath.Base(path) != "matches_data_20251129_083000.html" {
		t.Errorf("saved file name = %q", filepath.Base(path))
	}
	if !strings.Contains(gotUA, "Mozilla") {
		t.Errorf("user agent = %q, want a browser user agent", gotUA)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "<html>matches</html>" {
		t.Errorf("saved body = %q", body)
	}
}

func TestFetchNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	d := NewDownloader(server.URL)
	if _, err := d.Fetch(context.Background(), t.TempDir()); err == nil {
		t.Fatal("expected an error for a 403 response")
	}
}

func TestLatestFile(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "matches_data_20251122_080000.html")
	newer := filepath.Join(dir, "matches_data_20251129_080000.html")
	if err := os.WriteFile(older, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newer, []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	got, err := LatestFile(dir)
	if err != nil {
		t.Fatalf("LatestFile failed: %v", err)
	}
	if got != newer {
		t.Errorf("latest = %q, want %q", got, newer)
	}
}

func TestLatestFileFallback(t *testing.T) {
	dir := t.TempDir()
	fallback := filepath.Join(dir, "matches_data.html")
	if err := os.WriteFile(fallback, []byte("page"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := LatestFile(dir)
	if err != nil {
		t.Fatalf("LatestFile failed: %v", err)
	}
	if got != fallback {
		t.Errorf("latest = %q, want fallback %q", got, fallback)
	}
}

func TestLatestFileMissing(t *testing.T) {
	if _, err := LatestFile(t.TempDir()); err == nil {
		t.Fatal("expected an error when no matches page exists")
	}
}
