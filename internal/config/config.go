package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrMissingRequired = errors.New("missing required configuration")

type Config struct {
	DBHost string `envconfig:"DB_HOST" default:"postgres"`
	DBPort int    `envconfig:"DB_PORT" default:"5432"`
	DBUser string `envconfig:"DB_USER" default:"talentmatch"`
	DBPass string `envconfig:"DB_PASS" default:"password"`
	DBName string `envconfig:"DB_NAME" default:"talentmatch"`

	WeaviateHost   string `envconfig:"WEAVIATE_HOST" default:"localhost:8080"`
	WeaviateScheme string `envconfig:"WEAVIATE_SCHEME" default:"http"`

	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	NSQLookupd string `envconfig:"NSQ_LOOKUPD" default:"nsqlookupd:4161"`
	NSQDHost   string `envconfig:"NSQD_HOST" default:"nsqd:4150"`
	NSQDHTTP   string `envconfig:"NSQD_HTTP" default:"nsqd:4151"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`

	// External collaborators.
	GeocodeURL string `envconfig:"GEOCODE_URL" default:"http://geocoder:8000/get-geo-info"`
	RatesURL   string `envconfig:"RATES_URL" default:"http://rates:8000/rate"`
	FeedURL    string `envconfig:"FEED_URL" default:"http://feed:8000/jobs"`

	// Ingestion.
	EnablePoller        bool `envconfig:"ENABLE_POLLER" default:"true"`
	PollIntervalMinutes int  `envconfig:"POLL_INTERVAL_MINUTES" default:"5"`

	// Geo resolution.
	GeoConcurrency   int `envconfig:"GEO_CONCURRENCY" default:"8"`
	GeoCacheTTLHours int `envconfig:"GEO_CACHE_TTL_HOURS" default:"168"`

	// Exchange rates.
	RateFreshnessHours int `envconfig:"RATE_FRESHNESS_HOURS" default:"24"`

	// Search.
	MinScore        float64 `envconfig:"MIN_SCORE" default:"0.75"`
	SearchLimit     int     `envconfig:"SEARCH_LIMIT" default:"200"`
	DefaultPageSize int     `envconfig:"DEFAULT_PAGE_SIZE" default:"10"`

	// Server.
	ServerPort   int    `envconfig:"SERVER_PORT" default:"8081"`
	QueryLogPath string `envconfig:"QUERY_LOG_PATH" default:"data/logs/query.log"`

	// Resilience.
	MigrationPath              string `envconfig:"MIGRATION_PATH" default:"file://migrations"`
	BootstrapRetryAttempts     int    `envconfig:"BOOTSTRAP_RETRY_ATTEMPTS" default:"10"`
	BootstrapRetryDelaySeconds int    `envconfig:"BOOTSTRAP_RETRY_DELAY_SECONDS" default:"2"`
}

func Load() (*Config, error) {
	// Env vars may be set in the shell; .env files are optional.
	_ = godotenv.Load(".env")

	cwd, _ := os.Getwd()
	rootEnv := filepath.Join(cwd, "../../.env")
	_ = godotenv.Load(rootEnv)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBHost == "" {
		return fmt.Errorf("%w: DB_HOST", ErrMissingRequired)
	}
	if c.DBUser == "" {
		return fmt.Errorf("%w: DB_USER", ErrMissingRequired)
	}
	if c.DBName == "" {
		return fmt.Errorf("%w: DB_NAME", ErrMissingRequired)
	}
	if c.SearchLimit <= 0 {
		return fmt.Errorf("%w: SEARCH_LIMIT must be positive", ErrMissingRequired)
	}
	return nil
}
