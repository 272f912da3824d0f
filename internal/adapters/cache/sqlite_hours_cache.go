package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"trip-validation-service/internal/ports"
)

// SQLite backed cache for opening-hours sheets, one row per normalized place
// name. Weekday lines are stored as a JSON array.
type SqliteHoursCache struct {
	DB *sql.DB
}

func NewSqliteHoursCache(db *sql.DB) *SqliteHoursCache {
	return &SqliteHoursCache{DB: db}
}

func (s *SqliteHoursCache) Get(ctx context.Context, place string) (ports.PlaceHours, bool, error) {
	if s.DB == nil {
		return ports.PlaceHours{}, false, errors.New("hours cache: db is nil")
	}

	place = strings.TrimSpace(place)
	if place == "" {
		return ports.PlaceHours{}, false, errors.New("get hours cache: place must not be empty")
	}

	var name, lines string
	err := s.DB.QueryRowContext(ctx, `
	SELECT name, weekday_lines
    FROM place_hours_cache
    WHERE place = ?;
	`, place).Scan(&name, &lines)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.PlaceHours{}, false, nil
	}
	if err != nil {
		return ports.PlaceHours{}, false, fmt.Errorf("get hours cache: query place_hours_cache table: %w", err)
	}

	var weekdayLines []string
	if err := json.Unmarshal([]byte(lines), &weekdayLines); err != nil {
		return ports.PlaceHours{}, false, fmt.Errorf("get hours cache: decode weekday lines: %w", err)
	}

	return ports.PlaceHours{Name: name, WeekdayLines: weekdayLines}, true, nil
}

func (s *SqliteHoursCache) Put(ctx context.Context, place string, hours ports.PlaceHours) error {
	if s.DB == nil {
		return errors.New("hours cache: db is nil")
	}

	place = strings.TrimSpace(place)
	if place == "" {
		return errors.New("insert hours cache: place must not be empty")
	}

	lines, err := json.Marshal(hours.WeekdayLines)
	if err != nil {
		return fmt.Errorf("insert hours cache: encode weekday lines: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO place_hours_cache (place, name, weekday_lines)
    VALUES (?, ?, ?);
	`, place, hours.Name, string(lines))
	if err != nil {
		return fmt.Errorf("insert hours cache place=%q: %w", place, err)
	}

	return nil
}
