// Package config reads service configuration from the environment. A .env
// file, when present, is loaded by the composition root before Load runs.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port string `env:"PORT" env-default:"8080"`

	// DATABASE_URL selects the Postgres duration cache; when empty the
	// service falls back to the SQLite file at DB_PATH.
	DatabaseURL string `env:"DATABASE_URL"`
	DBPath      string `env:"DB_PATH" env-default:"data/app.db"`

	// REDIS_ADDR enables the TTL-based opening-hours cache; when empty the
	// hours sheets are kept in SQLite alongside the durations.
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	HoursCacheTTL time.Duration `env:"HOURS_CACHE_TTL" env-default:"168h"`

	GoogleMapsAPIKey string `env:"GOOGLE_MAPS_API_KEY"`
	TravelMode       string `env:"TRAVEL_MODE" env-default:"driving"`

	BufferMinutes      int     `env:"BUFFER_MINUTES" env-default:"20"`
	TripCeilingMinutes int     `env:"TRIP_CEILING_MINUTES" env-default:"720"`
	DetourAngleDegrees float64 `env:"DETOUR_ANGLE_DEGREES" env-default:"60"`
	ResetBudgetPerDay  bool    `env:"RESET_BUDGET_PER_DAY" env-default:"false"`

	DayStart string `env:"DAY_START" env-default:"09:00"`
	DayEnd   string `env:"DAY_END" env-default:"21:00"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read config from environment: %w", err)
	}

	if strings.TrimSpace(cfg.GoogleMapsAPIKey) == "" {
		return Config{}, fmt.Errorf("GOOGLE_MAPS_API_KEY is required")
	}
	if cfg.BufferMinutes < 0 {
		return Config{}, fmt.Errorf("BUFFER_MINUTES must not be negative")
	}
	if cfg.TripCeilingMinutes <= 0 {
		return Config{}, fmt.Errorf("TRIP_CEILING_MINUTES must be positive")
	}

	return cfg, nil
}
