package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	API       APIConfig
	Session   SessionConfig
	Reporting ReportingConfig
	Archive   ArchiveConfig
	Server    ServerConfig
}

// APIConfig holds options for the remote data gateway.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig holds client-side credential storage options.
type SessionConfig struct {
	CredentialsPath string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	RefreshSchedule string
	SummarySchedule string
	Timezone        string
}

// ArchiveConfig holds settings for the optional MongoDB summary archive.
// Leaving URI empty disables archival.
type ArchiveConfig struct {
	URI    string
	DBName string
}

// ServerConfig holds options for the local backend server.
type ServerConfig struct {
	Port            string
	DBPath          string
	Password        string
	TokenTTL        time.Duration
	RefreshTokenTTL time.Duration
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable
		// when configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: getenvWithDefault("COOP_API_BASE_URL", "http://127.0.0.1:8089"),
			Timeout: durationFromSeconds("COOP_API_TIMEOUT_SECONDS", 15),
		},
		Session: SessionConfig{
			CredentialsPath: getenvWithDefault("COOP_SESSION_FILE", defaultSessionPath()),
		},
		Reporting: ReportingConfig{
			RefreshSchedule: getenvWithDefault("COOP_REFRESH_SCHEDULE", "*/15 * * * *"),
			SummarySchedule: getenvWithDefault("COOP_SUMMARY_SCHEDULE", "0 20 * * *"),
			Timezone:        getenvWithDefault("TIMEZONE", "UTC"),
		},
		Archive: ArchiveConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "coopledger"),
		},
		Server: ServerConfig{
			Port:            getenvWithDefault("COOP_SERVER_PORT", "8089"),
			DBPath:          getenvWithDefault("COOP_SERVER_DB_PATH", "coopledger.db"),
			Password:        os.Getenv("COOP_SERVER_PASSWORD"),
			TokenTTL:        durationFromSeconds("COOP_TOKEN_TTL_SECONDS", 3600),
			RefreshTokenTTL: durationFromSeconds("COOP_REFRESH_TOKEN_TTL_SECONDS", 30*24*3600),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.API.BaseURL == "" {
		return errors.New("COOP_API_BASE_URL must not be empty")
	}
	if c.API.Timeout <= 0 {
		return errors.New("COOP_API_TIMEOUT_SECONDS must be positive")
	}

	if c.Session.CredentialsPath == "" {
		return errors.New("COOP_SESSION_FILE must not be empty")
	}

	switch {
	case c.Reporting.RefreshSchedule == "":
		return errors.New("COOP_REFRESH_SCHEDULE must be provided")
	case c.Reporting.SummarySchedule == "":
		return errors.New("COOP_SUMMARY_SCHEDULE must be provided")
	case c.Reporting.Timezone == "":
		return errors.New("TIMEZONE must be provided")
	}

	if c.Archive.URI != "" && c.Archive.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	if c.Server.Port == "" {
		return errors.New("COOP_SERVER_PORT must not be empty")
	}
	if c.Server.TokenTTL <= 0 || c.Server.RefreshTokenTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}

	return nil
}

// ValidateServer checks the fields only the local backend requires.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Server.DBPath == "" {
		return errors.New("COOP_SERVER_DB_PATH must not be empty")
	}
	if c.Server.Password == "" {
		return errors.New("COOP_SERVER_PASSWORD must be provided")
	}
	return nil
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(home, ".coopledger", "session.json")
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationFromSeconds(key string, fallback int) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return time.Duration(fallback) * time.Second
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return time.Duration(fallback) * time.Second
	}
	return time.Duration(seconds) * time.Second
}
