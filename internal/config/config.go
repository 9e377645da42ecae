package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port  int
	Env   string // development, production
	Debug bool

	// Database. When DatabaseURL is empty the daemon falls back to the
	// embedded SQLite database at SQLitePath.
	DatabaseURL  string
	DatabaseName string // optional override of the database in DatabaseURL
	SQLitePath   string

	// Events broker; empty disables event publishing
	AMQPURL string

	// Session
	SessionMaxAge int // seconds

	// Deleting a project also deletes its tasks when true
	CascadeDelete bool

	// Rate limiting
	RequestsPerMinute int
}

// IsProduction reports whether the daemon runs with production hardening
// (secure cookies, JSON logs).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnvInt("PORT", 5050),
		Env:               getEnv("ENV", "development"),
		Debug:             getEnvBool("DEBUG", false),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DatabaseName:      getEnv("DATABASE_NAME", ""),
		SQLitePath:        getEnv("SQLITE_PATH", "taskpilot.db"),
		AMQPURL:           getEnv("AMQP_URL", ""),
		SessionMaxAge:     getEnvInt("SESSION_MAX_AGE", 86400), // 24 hours
		CascadeDelete:     getEnvBool("CASCADE_DELETE", true),
		RequestsPerMinute: getEnvInt("REQUESTS_PER_MINUTE", 60),
	}

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, fmt.Errorf("apply config file: %w", err)
		}
	}

	if cfg.IsProduction() && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set in production")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
