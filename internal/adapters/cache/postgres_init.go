package cache

import (
	"database/sql"
	"fmt"
)

// InitPostgresSchema creates the duration cache table if it does not exist.
// Run once via the dbtool before pointing the service at a fresh database.
func InitPostgresSchema(db *sql.DB) error {
	q := `
	CREATE TABLE IF NOT EXISTS leg_duration_cache (
		origin        TEXT NOT NULL,
		destination   TEXT NOT NULL,
		mode          TEXT NOT NULL,
		duration_text TEXT NOT NULL,
		PRIMARY KEY (origin, destination, mode)
	);`

	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init postgres cache schema: %w", err)
	}

	return nil
}
