package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Rate     RateConfig
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Port int
}

// DatabaseConfig holds the store configuration. The default Path of
// ":memory:" keeps all state in process memory, discarded on restart; a file
// path may be supplied to keep the store across runs.
type DatabaseConfig struct {
	Path       string
	SeedSample bool
}

// AuthConfig holds the session configuration
type AuthConfig struct {
	SessionSecret string
	SessionTTL    time.Duration
}

// RateConfig holds the API rate limiter configuration
type RateConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// LoadConfig loads the configuration from a .env file (if present) and
// environment variables
func LoadConfig() *Config {
	// Missing .env is fine, system env vars still apply
	_ = godotenv.Load(".env")

	return &Config{
		Server: ServerConfig{
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Path:       getEnv("DB_PATH", ":memory:"),
			SeedSample: getEnvAsBool("SEED_SAMPLE_DATA", true),
		},
		Auth: AuthConfig{
			SessionSecret: getEnv("SESSION_SECRET", "library-dev-secret"),
			SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		},
		Rate: RateConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 50),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 100),
		},
	}
}

// Helper functions to read environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
