// Package gms provides a rate-limited HTTP client and HTML fragment parsers
// for the GMS league-management feed.
//
// The feed returns JSON envelopes containing embedded HTML fragments (league
// tables, fixture lists). The fragment shape is inferred from fixed CSS class
// markers rather than a documented contract, so an upstream change produces
// an empty parse instead of an explicit error; callers treat empty parses as
// retryable failures.
package gms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultRefreshBase     = "https://gmsfeed.co.uk/api/show/refresh"
	DefaultCompetitionsURL = "https://gmsfeed.co.uk/api/competitions"
	DefaultBaseDelay       = 1200 * time.Millisecond
	DefaultRetryLimit      = 4
	DefaultTimeout         = 20 * time.Second
)

// Options configures a Client. Zero values fall back to the defaults above.
// Now and Sleep exist so tests can inject a fake clock and sleeper.
type Options struct {
	RefreshBase     string
	CompetitionsURL string
	BaseDelay       time.Duration
	RetryLimit      int
	Timeout         time.Duration
	HTTPClient      *http.Client
	Now             func() time.Time
	Sleep           func(time.Duration)
	Logger          zerolog.Logger
}

// Client issues throttled requests to the GMS feed. A single next-allowed
// window is shared across all calls made through one instance: healthy calls
// are spaced by the base delay, and a 429 pushes the window further out for
// every subsequent call, not just the one that was limited.
type Client struct {
	httpClient      *http.Client
	refreshBase     string
	competitionsURL string
	limiter         *rate.Limiter
	baseDelay       time.Duration
	retryLimit      int
	notBefore       time.Time
	now             func() time.Time
	sleep           func(time.Duration)
	logger          zerolog.Logger
}

// New creates a Client from opts, filling in defaults for unset fields.
func New(opts Options) *Client {
	if opts.RefreshBase == "" {
		opts.RefreshBase = DefaultRefreshBase
	}
	if opts.CompetitionsURL == "" {
		opts.CompetitionsURL = DefaultCompetitionsURL
	}
	if opts.BaseDelay == 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	if opts.RetryLimit == 0 {
		opts.RetryLimit = DefaultRetryLimit
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}

	return &Client{
		httpClient:      opts.HTTPClient,
		refreshBase:     opts.RefreshBase,
		competitionsURL: opts.CompetitionsURL,
		limiter:         rate.NewLimiter(rate.Every(opts.BaseDelay), 1),
		baseDelay:       opts.BaseDelay,
		retryLimit:      opts.RetryLimit,
		now:             opts.Now,
		sleep:           opts.Sleep,
		logger:          opts.Logger,
	}
}

// envelope is the JSON wrapper the feed returns around each HTML fragment.
type envelope struct {
	HTML string `json:"html"`
}

// get fetches url, retrying rate-limit responses up to the retry ceiling.
// Any other non-2xx status is surfaced immediately without retry.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	// Exponential schedule for 429 responses without a Retry-After header:
	// 2*base, 4*base, 8*base...
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 2 * c.baseDelay
	expo.Multiplier = 2
	expo.RandomizationFactor = 0
	expo.MaxInterval = time.Hour
	expo.MaxElapsedTime = 0
	expo.Reset()

	for attempt := 1; attempt <= c.retryLimit; attempt++ {
		c.waitForWindow()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			delay := expo.NextBackOff()
			if retryAfter := retryAfterDelay(resp.Header.Get("Retry-After")); retryAfter > 0 {
				delay = retryAfter
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			c.notBefore = c.now().Add(delay)
			if attempt == c.retryLimit {
				return nil, fmt.Errorf("rate limited fetching %s: status 429 after %d attempts", rawURL, attempt)
			}
			c.logger.Debug().
				Str("url", rawURL).
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("rate limited, backing off")
			c.sleep(delay)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("fetching %s: unexpected status %d", rawURL, resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading response from %s: %w", rawURL, err)
		}
		return body, nil
	}

	return nil, fmt.Errorf("fetching %s: retry limit exhausted", rawURL)
}

// waitForWindow blocks until both the 429 penalty deadline and the steady
// inter-request window allow the next call.
func (c *Client) waitForWindow() {
	if wait := c.notBefore.Sub(c.now()); wait > 0 {
		c.sleep(wait)
	}
	if d := c.limiter.Reserve().Delay(); d > 0 {
		c.sleep(d)
	}
}

// getHTML fetches url and unwraps the HTML fragment from its JSON envelope.
func (c *Client) getHTML(ctx context.Context, rawURL string) (string, error) {
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return "", err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("decoding feed envelope from %s: %w", rawURL, err)
	}
	return env.HTML, nil
}

// showURL builds a refresh-endpoint URL for the given fragment kind.
func (c *Client) showURL(show, teamID, compID string) string {
	params := url.Values{}
	params.Set("method", "api")
	params.Set("show", show)
	params.Set("team", strings.TrimSpace(teamID))
	params.Set("sort_by", "fixtureTime")
	if compID != "" {
		params.Set("comp_id", strings.TrimSpace(compID))
	}
	return c.refreshBase + "?" + params.Encode()
}

// CompetitionsForTeam fetches and parses the competitions dropdown for a team.
func (c *Client) CompetitionsForTeam(ctx context.Context, teamID string) ([]Competition, error) {
	u := c.competitionsURL + "?team=" + url.QueryEscape(strings.TrimSpace(teamID))
	html, err := c.getHTML(ctx, u)
	if err != nil {
		return nil, err
	}
	return ParseCompetitions(html)
}

// TeamRow fetches the league-table row for a team within a competition.
func (c *Client) TeamRow(ctx context.Context, teamID, compID string) (*LeagueRow, error) {
	html, err := c.getHTML(ctx, c.showURL("league", teamID, compID))
	if err != nil {
		return nil, err
	}
	row, err := ParseLeagueRow(html, teamID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("team %s not found in competition %s", teamID, compID)
	}
	return row, nil
}

// TeamSummary fetches the summary table row for a team. compID may be empty
// to pull the cross-competition summary.
func (c *Client) TeamSummary(ctx context.Context, teamID, compID string) (*TeamSummary, error) {
	html, err := c.getHTML(ctx, c.showURL("league", teamID, compID))
	if err != nil {
		return nil, err
	}
	summary, err := ParseTeamSummary(html, teamID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, fmt.Errorf("unable to parse team summary table for %s", teamID)
	}
	if compID != "" {
		summary.CompID = compID
	}
	return summary, nil
}

// ResultsAndFixtures fetches the results+fixtures rows for a team.
func (c *Client) ResultsAndFixtures(ctx context.Context, teamID, compID string) ([]FixtureRow, error) {
	html, err := c.getHTML(ctx, c.showURL("results+fixtures", teamID, compID))
	if err != nil {
		return nil, err
	}
	return ParseResultsAndFixtures(html)
}

// retryAfterDelay parses a numeric Retry-After header value into a duration.
// Returns 0 for absent or non-numeric values.
func retryAfterDelay(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
