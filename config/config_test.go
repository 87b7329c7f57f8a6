package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"PORT", "DB_DRIVER", "DB_PATH", "DATABASE_URL", "DB_DEBUG",
	"JWT_SECRET", "JWT_ISSUER", "JWT_AUDIENCE",
	"REDIS_ADDR", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW",
	"TIMEZONE", "ACTIVITY_CAPACITY", "SHUTDOWN_TIMEOUT", "LOG_LEVEL", "DEV_TOKEN_USER",
}

// clearEnvVars unsets every variable Config reads and restores them after t.
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, name := range envVars {
		if old, ok := os.LookupEnv(name); ok {
			t.Cleanup(func() { os.Setenv(name, old) })
		} else {
			t.Cleanup(func() { os.Unsetenv(name) })
		}
		os.Unsetenv(name)
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnvVars(t)

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "tasks.db", cfg.DBPath)
	assert.False(t, cfg.DBDebug)
	assert.Equal(t, "authenticated", cfg.JWTAudience)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 120, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, "Local", cfg.Timezone)
	assert.Equal(t, 200, cfg.ActivityCapacity)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Local, cfg.Location())
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://tasks@localhost/tasks")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnvVars(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=4000\nDB_PATH=from-file.db\n"), 0o600))
	t.Setenv("PORT", "5000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "from-file.db", cfg.DBPath)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:              3000,
			DBDriver:          "sqlite",
			RateLimitRequests: 1,
			RateLimitWindow:   time.Second,
			ActivityCapacity:  1,
			ShutdownTimeout:   time.Second,
			LogLevel:          "info",
			Timezone:          "UTC",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.DBDriver = "mysql" }, wantErr: "DB_DRIVER"},
		{name: "postgres without url", mutate: func(c *Config) { c.DBDriver = "postgres" }, wantErr: "DATABASE_URL"},
		{name: "port out of range", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "PORT"},
		{name: "zero rate", mutate: func(c *Config) { c.RateLimitRequests = 0 }, wantErr: "RATE_LIMIT_REQUESTS"},
		{name: "zero window", mutate: func(c *Config) { c.RateLimitWindow = 0 }, wantErr: "RATE_LIMIT_WINDOW"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "verbose" }, wantErr: "LOG_LEVEL"},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: "TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
