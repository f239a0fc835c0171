package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	LogLevel  string
	LogFormat string
	// StoreDriver selects the key-value backend: bbolt, redis or memory.
	StoreDriver string
	BoltPath    string
	RedisURL    string
	// ExportDir is where review exports are written.
	ExportDir string
}

// Load reads configuration from environment variables with sensible
// defaults. It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		LogLevel:    getEnv("LOG_LEVEL", "warn"),
		LogFormat:   getEnv("LOG_FORMAT", "pretty"),
		StoreDriver: getEnv("STORE_DRIVER", "bbolt"),
		BoltPath:    getEnv("BBOLT_PATH", "practice.db"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		ExportDir:   getEnv("EXPORT_DIR", "."),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
