// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir     string // Directory scanned for CSV price files
	DBPath      string // SQLite price database (defaults to <DataDir>/prices.db)
	Port        int
	LogLevel    string
	DevMode     bool
	RefreshCron string // Cron spec for re-importing the data dir; empty disables
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("HINDSIGHT_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("invalid data dir %q: %w", dataDir, err)
	}

	port := 8090
	if raw := os.Getenv("HINDSIGHT_PORT"); raw != "" {
		port, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid HINDSIGHT_PORT %q: %w", raw, err)
		}
	}

	return &Config{
		DataDir:     absDataDir,
		DBPath:      getEnv("HINDSIGHT_DB_PATH", filepath.Join(absDataDir, "prices.db")),
		Port:        port,
		LogLevel:    getEnv("HINDSIGHT_LOG_LEVEL", "info"),
		DevMode:     os.Getenv("HINDSIGHT_DEV") == "1",
		RefreshCron: os.Getenv("HINDSIGHT_PRICES_REFRESH_CRON"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
