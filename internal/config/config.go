package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the API server.
type Config struct {
	HTTPAddr       string
	DatabaseURL    string
	JWTSecret      string
	TokenTTL       time.Duration
	RefreshGrace   time.Duration
	PurgeTime      string
	PurgeRetention time.Duration
	WebDir         string
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:       strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:       parseMinutes(strings.TrimSpace(os.Getenv("TOKEN_TTL_MINUTES"))),
		RefreshGrace:   parseMinutes(strings.TrimSpace(os.Getenv("REFRESH_GRACE_MINUTES"))),
		PurgeTime:      strings.TrimSpace(os.Getenv("PURGE_TIME")),
		PurgeRetention: parseDays(strings.TrimSpace(os.Getenv("PURGE_RETENTION_DAYS"))),
		WebDir:         strings.TrimSpace(os.Getenv("WEB_DIR")),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "task_manager.db"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.PurgeTime == "" {
		cfg.PurgeTime = "03:30"
	}
	if cfg.PurgeRetention == 0 {
		cfg.PurgeRetention = 30 * 24 * time.Hour
	}
	if cfg.WebDir == "" {
		cfg.WebDir = "web"
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func parseMinutes(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	minutes, err := time.ParseDuration(raw + "m")
	if err != nil || minutes <= 0 {
		return 0
	}
	return minutes
}

func parseDays(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return 0
	}
	return time.Duration(days) * 24 * time.Hour
}
