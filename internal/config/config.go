// Package config loads the server configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultDiskPath = "scrollstack.db"

type Config struct {
	// Port the HTTP server listens on.
	Port int
	// DBPath is the SQLite database location; ":memory:" for the
	// embedded throwaway backend.
	DBPath string
	// AdminToken protects write routes. Empty disables auth entirely.
	AdminToken string
	// AllowedOrigins for CORS. Empty allows none.
	AllowedOrigins []string
	LogLevel       slog.Level
}

// Load reads configuration from a .env file (when present) and the
// environment. Storage defaults to the in-memory backend; set USE_DISK
// to persist, or DB_PATH to pick the file directly.
func Load() (Config, error) {
	// Missing .env is fine; real deployments set the environment.
	godotenv.Load()

	cfg := Config{
		Port:     8080,
		DBPath:   ":memory:",
		LogLevel: slog.LevelInfo,
	}

	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid PORT %q: %w", raw, err)
		}
		cfg.Port = port
	}

	if useDisk, _ := strconv.ParseBool(os.Getenv("USE_DISK")); useDisk {
		cfg.DBPath = defaultDiskPath
	}
	if path := os.Getenv("DB_PATH"); path != "" {
		cfg.DBPath = path
	}

	cfg.AdminToken = os.Getenv("ADMIN_TOKEN")

	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return Config{}, fmt.Errorf("config: invalid LOG_LEVEL %q: %w", raw, err)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}
