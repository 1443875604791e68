package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DatabaseTypePostgres = "postgres"
	DatabaseTypeSQLite   = "sqlite"
)

type Config struct {
	DatabaseURL          string        `envconfig:"DATABASE_URL" required:"true"`
	DatabaseType         string        `envconfig:"DATABASE_TYPE" default:"postgres"`
	APIPort              int           `envconfig:"API_PORT" default:"8080"`
	DataFile             string        `envconfig:"DATA_FILE"`
	SkipUnchanged        bool          `envconfig:"SKIP_UNCHANGED" default:"false"`
	RejectDuplicateYears bool          `envconfig:"REJECT_DUPLICATE_YEARS" default:"false"`
	LogLevel             string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat            string        `envconfig:"LOG_FORMAT" default:"json"`
	RateLimitRPS         float64       `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst       int           `envconfig:"RATE_LIMIT_BURST" default:"40"`
	ShutdownTimeout      time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// New reads the configuration from the environment. Callers load .env files beforehand.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	switch c.DatabaseType {
	case DatabaseTypePostgres, DatabaseTypeSQLite:
	default:
		return fmt.Errorf("invalid value for DATABASE_TYPE: expected %q or %q, got '%s'", DatabaseTypePostgres, DatabaseTypeSQLite, c.DatabaseType)
	}

	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("invalid value for API_PORT: expected a port number, got '%d'", c.APIPort)
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return nil
}
