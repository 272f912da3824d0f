package cache

import (
	"database/sql"
	"fmt"
)

// InitSqliteSchema creates the cache tables if they do not exist. Called once
// at startup before any cache reads.
func InitSqliteSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS leg_duration_cache (
			origin        TEXT NOT NULL,
			destination   TEXT NOT NULL,
			mode          TEXT NOT NULL,
			duration_text TEXT NOT NULL,
			PRIMARY KEY (origin, destination, mode)
		);`,
		`CREATE TABLE IF NOT EXISTS place_hours_cache (
			place         TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			weekday_lines TEXT NOT NULL
		);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init sqlite cache schema: %w", err)
		}
	}

	return nil
}
