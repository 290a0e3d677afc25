package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment   string
	HTTPPort      string
	StoreBackend  string // "sqlite" or "memory"
	DatabasePath  string
	FrontendDir   string
	JWTSecret     string
	SessionTTL    time.Duration
	AdminUsername string
	AdminPassword string
	CloseoutCron  string // cron spec for end-of-day auto sign-out, empty disables it
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:   getEnv("FOYER_ENV", "development"),
		HTTPPort:      getEnv("FOYER_HTTP_PORT", "8080"),
		StoreBackend:  getEnv("FOYER_STORE", "sqlite"),
		DatabasePath:  getEnv("FOYER_DB_PATH", filepath.Join("data", "foyer.db")),
		FrontendDir:   getEnv("FOYER_FRONTEND_DIR", filepath.Clean(filepath.Join("..", "frontend", "dist"))),
		JWTSecret:     getEnv("FOYER_JWT_SECRET", "visitor-management-secret-key"),
		AdminUsername: getEnv("FOYER_ADMIN_USER", "admin"),
		AdminPassword: getEnv("FOYER_ADMIN_PASSWORD", "admin123"),
		CloseoutCron:  os.Getenv("FOYER_CLOSEOUT_CRON"),
	}

	ttl := getEnv("FOYER_SESSION_TTL", "24h")
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOYER_SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = d

	if cfg.StoreBackend != "sqlite" && cfg.StoreBackend != "memory" {
		return Config{}, fmt.Errorf("unknown FOYER_STORE backend %q", cfg.StoreBackend)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the server runs in production mode.
// Controls cookie security flags and log formatting.
func (c Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}
