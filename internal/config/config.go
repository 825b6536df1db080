package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the CLI process
type Config struct {
	// Session Configuration
	Session SessionConfig

	// Logging Configuration
	Logging LoggingConfig
}

// SessionConfig holds session-related configuration
type SessionConfig struct {
	DemoMode bool // bootstrap a fixed demo session instead of hitting the API
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// Demo mode bootstraps a canned session without any network calls.
	// A persisted real credential always takes precedence over demo mode.
	demoMode, _ := strconv.ParseBool(os.Getenv("CHATDOCS_DEMO_MODE"))

	// Logging configuration - defaults suitable for interactive CLI use
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "warn"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "console"
	}

	return &Config{
		Session: SessionConfig{
			DemoMode: demoMode,
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
	}, nil
}
