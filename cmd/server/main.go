package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"trip-validation-service/internal/adapters/cache"
	"trip-validation-service/internal/adapters/maps"
	"trip-validation-service/internal/api"
	"trip-validation-service/internal/config"
	"trip-validation-service/internal/parse"
	"trip-validation-service/internal/platform/db"
	"trip-validation-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres/SQLite caches, Redis, Google Maps)
// behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	dayStart, err := parse.Clock(cfg.DayStart)
	if err != nil {
		log.Fatalf("DAY_START: %v", err)
	}
	dayEnd, err := parse.Clock(cfg.DayEnd)
	if err != nil {
		log.Fatalf("DAY_END: %v", err)
	}
	if dayEnd <= dayStart {
		log.Fatal("DAY_END must be after DAY_START")
	}

	var (
		durationCache maps.DurationCache
		hoursCache    maps.HoursCache
		sqliteDB      *sql.DB
	)

	// Postgres is preferred when configured; SQLite covers local runs.
	if cfg.DatabaseURL != "" {
		pg, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		durationCache = cache.NewSQLDurationCache(pg)
	} else {
		sqliteDB, err = openSqlite(cfg.DBPath)
		if err != nil {
			log.Fatal(err)
		}
		defer sqliteDB.Close()
		durationCache = cache.NewSqliteDurationCache(sqliteDB)
	}

	// Opening-hours sheets go to Redis when available so entries expire on
	// their own; otherwise they share the SQLite file.
	switch {
	case cfg.RedisAddr != "":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("verify redis connection to %q: %v", cfg.RedisAddr, err)
		}
		defer client.Close()
		hoursCache = cache.NewRedisHoursCache(client, cfg.HoursCacheTTL)
	case sqliteDB != nil:
		hoursCache = cache.NewSqliteHoursCache(sqliteDB)
	}

	provider, err := maps.NewGoogleProvider(cfg.GoogleMapsAPIKey, durationCache, hoursCache)
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(provider, provider, api.RouterOptions{
		Check: services.CheckConfig{
			Budget: services.BudgetConfig{
				BufferMinutes:  cfg.BufferMinutes,
				CeilingMinutes: cfg.TripCeilingMinutes,
				Mode:           cfg.TravelMode,
				ResetPerDay:    cfg.ResetBudgetPerDay,
			},
			Detour: services.DetourConfig{ThresholdDegrees: cfg.DetourAngleDegrees},
		},
		Mode:     cfg.TravelMode,
		DayStart: dayStart,
		DayEnd:   dayEnd,
	})

	// Timeouts are tuned for cold-cache validation (external API latency).
	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openSqlite(dbPath string) (*sql.DB, error) {
	sdb, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := sdb.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	if err := cache.InitSqliteSchema(sdb); err != nil {
		return nil, err
	}

	return sdb, nil
}
