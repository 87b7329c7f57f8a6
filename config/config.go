// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all environment-based configuration.
type Config struct {
	// Port is the HTTP port.
	Port int `envconfig:"PORT" default:"3000"`

	// DBDriver selects the task store: sqlite, postgres or memory.
	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite"`
	// DBPath is the SQLite database file.
	DBPath string `envconfig:"DB_PATH" default:"tasks.db"`
	// DatabaseURL is the Postgres DSN, required for the postgres driver.
	DatabaseURL string `envconfig:"DATABASE_URL"`
	// DBDebug logs every SQL statement.
	DBDebug bool `envconfig:"DB_DEBUG" default:"false"`

	// JWTSecret verifies provider tokens. Empty falls back to a development
	// secret.
	JWTSecret   string `envconfig:"JWT_SECRET"`
	JWTIssuer   string `envconfig:"JWT_ISSUER"`
	JWTAudience string `envconfig:"JWT_AUDIENCE" default:"authenticated"`

	// RedisAddr enables rate limiting when set.
	RedisAddr         string        `envconfig:"REDIS_ADDR"`
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"120"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// Timezone decides calendar days for due dates and stats.
	Timezone string `envconfig:"TIMEZONE" default:"Local"`

	ActivityCapacity int           `envconfig:"ACTIVITY_CAPACITY" default:"200"`
	ShutdownTimeout  time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	// LogLevel is info or error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// DevTokenUser, when set, logs a signed token for that user at startup.
	DevTokenUser string `envconfig:"DEV_TOKEN_USER"`
}

// Load reads an optional .env file at envPath, then the environment.
// Variables already set in the environment win over the file.
func Load(envPath string) (Config, error) {
	if err := loadDotEnv(envPath); err != nil {
		return Config{}, fmt.Errorf("failed to load %s: %w", envPath, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadDotEnv loads path if it exists. A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Validate checks enumerations and bounds.
func (c Config) Validate() error {
	var errs []error

	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 0 and 65535, got %d", c.Port))
	}
	switch c.DBDriver {
	case "sqlite", "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be sqlite, postgres or memory, got %q", c.DBDriver))
	}
	if c.RateLimitRequests < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.RateLimitRequests))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow))
	}
	if c.ActivityCapacity < 1 {
		errs = append(errs, fmt.Errorf("ACTIVITY_CAPACITY must be positive, got %d", c.ActivityCapacity))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout))
	}
	if c.LogLevel != "info" && c.LogLevel != "error" {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be info or error, got %q", c.LogLevel))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}

	return errors.Join(errs...)
}

// Location returns the configured time zone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
