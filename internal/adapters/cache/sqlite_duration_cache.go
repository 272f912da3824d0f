package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLite backed cache for leg duration text. Keys are expected to be
// consistent (e.g., already normalized) by the caller.
type SqliteDurationCache struct {
	DB *sql.DB
}

func NewSqliteDurationCache(db *sql.DB) *SqliteDurationCache {
	return &SqliteDurationCache{DB: db}
}

// Fetch cached duration text for one origin and multiple destinations.
func (s *SqliteDurationCache) GetMany(
	ctx context.Context,
	origin string,
	mode string,
	destinations []string,
) (map[string]string, error) {
	if s.DB == nil {
		return nil, errors.New("duration cache: db is nil")
	}

	if origin == "" {
		return nil, errors.New("get duration cache: origin must not be empty")
	}

	if len(destinations) == 0 {
		return map[string]string{}, nil
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(destinations))
	ph := make([]string, 0, len(destinations))
	for _, d := range destinations {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}

		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		uniq = append(uniq, d)
		ph = append(ph, "?")
	}

	if len(uniq) == 0 {
		return map[string]string{}, nil
	}

	placeholders := strings.Join(ph, ",")
	args := make([]any, 0, 2+len(uniq))
	args = append(args, origin, mode)
	for _, d := range uniq {
		args = append(args, d)
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT
        destination,
        duration_text
    FROM leg_duration_cache
    WHERE origin = ?
        AND mode = ?
        AND destination IN (%s);
	`, placeholders)

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get duration cache: query leg_duration_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string, len(uniq))
	for rows.Next() {
		var dest, text string
		if err := rows.Scan(&dest, &text); err != nil {
			return nil, fmt.Errorf("get duration cache: scan rows: %w", err)
		}
		out[dest] = text
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get duration cache: row iteration: %w", err)
	}

	return out, nil
}

// Store many duration texts for a single origin and mode.
func (s *SqliteDurationCache) PutMany(
	ctx context.Context,
	origin string,
	mode string,
	durations map[string]string,
) error {
	if s.DB == nil {
		return errors.New("duration cache: db is nil")
	}

	if origin == "" {
		return errors.New("insert duration cache: origin must not be empty")
	}

	if len(durations) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert duration cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO leg_duration_cache (
        origin,
        destination,
        mode,
        duration_text
    )
    VALUES (?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("insert duration cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for dest, text := range durations {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert duration cache: empty destination key")
		}

		if _, err := stmt.ExecContext(ctx, origin, dest, mode, text); err != nil {
			return fmt.Errorf("insert duration cache dest=%q: %w", dest, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert duration cache commit: %w", err)
	}

	return nil
}
