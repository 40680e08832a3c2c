// Package config provides environment-based configuration for the mtg CLI.
package config

import (
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	DatabaseURL  string // Postgres connection string (DATABASE_URL)
	OpenAIAPIKey string // used by deck-builder describe (OPENAI_API_KEY)
	LogLevel     string // debug, info, warn, error (default: info)
	LogFormat    string // text, json (default: text)
	DumpDir      string // where scryfall bulk dumps are kept
	DeckDir      string // default directory scanned for deck lists
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

var validLogFormats = []string{"text", "json"}

var loadOnce sync.Once

// Load reads configuration from the environment, loading .env.local once if
// present. Enumerated settings reject unknown values.
func Load() (*Config, error) {
	loadOnce.Do(func() {
		_ = godotenv.Load(".env.local")
	})

	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		LogLevel:     getEnv("MTG_LOG_LEVEL", "info"),
		LogFormat:    getEnv("MTG_LOG_FORMAT", "text"),
		DumpDir:      getEnv("MTG_DUMP_DIR", "./data/scryfall_dumps"),
		DeckDir:      getEnv("MTG_DECK_DIR", "./data/decks"),
	}

	if !slices.Contains(validLogLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid MTG_LOG_LEVEL %q: must be one of %v", cfg.LogLevel, validLogLevels)
	}
	if !slices.Contains(validLogFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid MTG_LOG_FORMAT %q: must be one of %v", cfg.LogFormat, validLogFormats)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
