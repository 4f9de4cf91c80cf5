// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":8080"`
	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	// Upstream NHL API
	NHLBaseURL      string        `envconfig:"NHL_BASE_URL" default:"https://api-web.nhle.com"`
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"15s"`
	RetryAttempts   int           `envconfig:"RETRY_ATTEMPTS" default:"3"`
	RetryDelay      time.Duration `envconfig:"RETRY_DELAY" default:"400ms"`

	// Aggregation
	Season           string `envconfig:"SEASON" default:""` // e.g. "20252026"; derived from the clock when empty
	RatingWindowDays int    `envconfig:"RATING_WINDOW_DAYS" default:"60"`
	BoxscoreWorkers  int    `envconfig:"BOXSCORE_WORKERS" default:"6"`
	TopPlayers       int    `envconfig:"TOP_PLAYERS" default:"50"`

	// Scoring
	RatingCenter float64 `envconfig:"RATING_CENTER" default:"1500"`

	// Caching and refresh
	CacheTTL    time.Duration `envconfig:"CACHE_TTL" default:"1h"`
	RefreshCron string        `envconfig:"REFRESH_CRON" default:"@hourly"`

	// Discord announcements (optional; disabled when token is empty)
	DiscordToken     string `envconfig:"DISCORD_TOKEN" default:""`
	DiscordChannelID string `envconfig:"DISCORD_CHANNEL_ID" default:""`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads a .env file when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// MustLoad loads configuration or exits. Use in main.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// Validate rejects values the aggregation pipeline cannot run with.
func (c *Config) Validate() error {
	if c.RetryAttempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be at least 1")
	}
	if c.RatingWindowDays < 1 {
		return fmt.Errorf("RATING_WINDOW_DAYS must be at least 1")
	}
	if c.BoxscoreWorkers < 1 {
		return fmt.Errorf("BOXSCORE_WORKERS must be at least 1")
	}
	if c.TopPlayers < 1 {
		return fmt.Errorf("TOP_PLAYERS must be at least 1")
	}
	if c.DiscordToken != "" && c.DiscordChannelID == "" {
		return fmt.Errorf("DISCORD_CHANNEL_ID is required when DISCORD_TOKEN is set")
	}
	return nil
}

// SeasonID returns the configured season, or derives it from now: an NHL
// season rolls over in July, so "20252026" runs July 2025 through June 2026.
func (c *Config) SeasonID(now time.Time) string {
	if c.Season != "" {
		return c.Season
	}
	year := now.Year()
	if now.Month() < time.July {
		year--
	}
	return fmt.Sprintf("%d%d", year, year+1)
}
