package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the command line tool's settings.
type Config struct {
	LogLevel  string // debug, info, warn, error
	LogPretty bool
	Shots     int   // Default number of shots for backend runs
	Seed      int64 // Statevector sampler seed, 0 means time-seeded
	Export    string
}

// Load reads configuration from the environment, after loading a .env file
// when one is present.
func Load() (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:  getEnv("QDECK_LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("QDECK_LOG_PRETTY", true),
		Shots:     getEnvAsInt("QDECK_SHOTS", 1024),
		Seed:      int64(getEnvAsInt("QDECK_SEED", 0)),
		Export:    getEnv("QDECK_EXPORT_DIR", "."),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Shots <= 0 {
		return fmt.Errorf("QDECK_SHOTS must be positive, got %d", c.Shots)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("QDECK_LOG_LEVEL %q is not a log level", c.LogLevel)
	}
	if c.Export == "" {
		return fmt.Errorf("QDECK_EXPORT_DIR must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
