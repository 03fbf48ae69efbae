// Package matches downloads the club website's matches page, whose embedded
// page state is the source for the fixtures exports. Pages are saved whole
// so extraction can be re-run offline.
package matches

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Downloader fetches and saves the matches page.
type Downloader struct {
	client *http.Client
	url    string
	now    func() time.Time
}

// NewDownloader creates a Downloader for the given matches page URL.
func NewDownloader(url string) *Downloader {
	return &Downloader{
		client: &http.Client{Timeout: 30 * time.Second},
		url:    url,
		now:    time.Now,
	}
}

// Fetch downloads the matches page and saves it as
// matches_data_<timestamp>.html under dir, returning the saved path.
func (d *Downloader) Fetch(ctx context.Context, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en-US;q=0.9,en;q=0.8")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching matches page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching matches page: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading matches page: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating matches directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("matches_data_%s.html", d.now().Format("20060102_150405")))
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", fmt.Errorf("saving matches page: %w", err)
	}
	return path, nil
}

// LatestFile returns the most recently saved matches page under dir,
// falling back to matches_data.html. Errors when neither exists.
func LatestFile(dir string) (string, error) {
	pattern := filepath.Join(dir, "matches_data_*.html")
	candidates, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("listing matches files: %w", err)
	}

	if len(candidates) == 0 {
		fallback := filepath.Join(dir, "matches_data.html")
		if _, err := os.Stat(fallback); err != nil {
			return "", fmt.Errorf("no matches page found under %s", dir)
		}
		return fallback, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return modTime(candidates[i]).After(modTime(candidates[j]))
	})
	return candidates[0], nil
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
