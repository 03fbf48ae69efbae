// Package config provides application settings loaded from environment
// variables and the team/competition configuration consumed by the bulk
// export pipeline. Team config files are ordered JSON lists; order is
// preserved all the way through to the exported snapshot.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	// GMS feed
	GMSRefreshBase     string        `envconfig:"GMS_REFRESH_BASE" default:"https://gmsfeed.co.uk/api/show/refresh"`
	GMSCompetitionsURL string        `envconfig:"GMS_COMPETITIONS_URL" default:"https://gmsfeed.co.uk/api/competitions"`
	GMSTimeout         time.Duration `envconfig:"GMS_TIMEOUT" default:"20s"`

	// Rate limiting and retries (per upstream observed behaviour)
	RateLimitDelay time.Duration `envconfig:"GMS_RATE_LIMIT_DELAY" default:"1200ms"`
	RetryLimit     int           `envconfig:"GMS_RETRY_LIMIT" default:"4"`

	// Bulk fetch retry rounds
	BulkRetryRounds int           `envconfig:"BULK_RETRY_ROUNDS" default:"2"`
	BulkBackoffBase time.Duration `envconfig:"BULK_BACKOFF_BASE" default:"4s"`

	// Club matches page (scoreboard fixtures source)
	MatchesURL string `envconfig:"MATCHES_URL" default:"https://www.stalbanshc.co.uk/matches"`
	ClubName   string `envconfig:"CLUB_NAME" default:"St Albans"`

	// Paths
	DataDir   string `envconfig:"DATA_DIR" default:"data/league"`
	ConfigDir string `envconfig:"CONFIG_DIR" default:"config"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from the environment, loading .env first if present.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment config: %w", err)
	}
	return &cfg, nil
}

// TeamEntry is one row of the team/competition config. CompID and CompLabel
// are empty until resolved by the competitions command.
type TeamEntry struct {
	Name      string `json:"name"`
	TeamID    string `json:"teamId"`
	CompID    string `json:"compId,omitempty"`
	CompLabel string `json:"compLabel,omitempty"`
}

// LoadTeams reads an ordered team config list from a JSON file.
func LoadTeams(path string) ([]TeamEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading team config: %w", err)
	}

	var teams []TeamEntry
	if err := json.Unmarshal(data, &teams); err != nil {
		return nil, fmt.Errorf("parsing team config %s: %w", path, err)
	}
	return teams, nil
}
