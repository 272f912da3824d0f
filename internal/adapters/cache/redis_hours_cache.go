package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"trip-validation-service/internal/ports"
)

// RedisHoursCache keeps opening-hours sheets in Redis with a TTL. Unlike the
// SQLite variant, entries expire so stale sheets refresh themselves.
type RedisHoursCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisHoursCache(client *redis.Client, ttl time.Duration) *RedisHoursCache {
	return &RedisHoursCache{client: client, ttl: ttl}
}

func hoursKey(place string) string {
	return "hours:" + place
}

func (r *RedisHoursCache) Get(ctx context.Context, place string) (ports.PlaceHours, bool, error) {
	if r.client == nil {
		return ports.PlaceHours{}, false, errors.New("hours cache: redis client is nil")
	}

	place = strings.TrimSpace(place)
	if place == "" {
		return ports.PlaceHours{}, false, errors.New("get hours cache: place must not be empty")
	}

	raw, err := r.client.Get(ctx, hoursKey(place)).Result()
	if errors.Is(err, redis.Nil) {
		return ports.PlaceHours{}, false, nil
	}
	if err != nil {
		return ports.PlaceHours{}, false, fmt.Errorf("get hours cache: redis get: %w", err)
	}

	var hours ports.PlaceHours
	if err := json.Unmarshal([]byte(raw), &hours); err != nil {
		return ports.PlaceHours{}, false, fmt.Errorf("get hours cache: decode entry: %w", err)
	}

	return hours, true, nil
}

func (r *RedisHoursCache) Put(ctx context.Context, place string, hours ports.PlaceHours) error {
	if r.client == nil {
		return errors.New("hours cache: redis client is nil")
	}

	place = strings.TrimSpace(place)
	if place == "" {
		return errors.New("insert hours cache: place must not be empty")
	}

	raw, err := json.Marshal(hours)
	if err != nil {
		return fmt.Errorf("insert hours cache: encode entry: %w", err)
	}

	if err := r.client.Set(ctx, hoursKey(place), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("insert hours cache place=%q: redis set: %w", place, err)
	}

	return nil
}
