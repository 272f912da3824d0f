package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"trip-validation-service/internal/platform/obs"
)

// SQLDurationCache is a SQL-backed cache for leg duration text, keyed by
// origin, destination and travel mode.
type SQLDurationCache struct {
	DB *sql.DB
}

func NewSQLDurationCache(db *sql.DB) *SQLDurationCache {
	return &SQLDurationCache{DB: db}
}

// Fetch cached duration text for one origin and multiple destinations.
func (s *SQLDurationCache) GetMany(
	ctx context.Context,
	origin string,
	mode string,
	destinations []string,
) (_ map[string]string, err error) {
	defer obs.Time(ctx, "duration.cache.GetMany")(&err)

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
	}

	if len(uniq) == 0 {
		return map[string]string{}, nil
	}

	q := `
	SELECT destination, duration_text
    FROM leg_duration_cache
    WHERE origin = $1
        AND mode = $2
        AND destination = ANY($3::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, origin, mode, uniq)
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
func (s *SQLDurationCache) PutMany(
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
	INSERT INTO leg_duration_cache (origin, destination, mode, duration_text)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (origin, destination, mode) DO UPDATE
	SET duration_text = EXCLUDED.duration_text;
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
