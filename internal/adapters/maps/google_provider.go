// Package maps implements the travel-time and place-directory ports against
// the Google Maps web services.
package maps

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"trip-validation-service/internal/platform/obs"
	"trip-validation-service/internal/ports"
)

// DurationCache is consumed by the provider for leg duration text, keyed by
// normalized origin, destination and mode. Implementations live in
// internal/adapters/cache; a nil cache disables caching.
type DurationCache interface {
	GetMany(ctx context.Context, origin, mode string, destinations []string) (map[string]string, error)
	PutMany(ctx context.Context, origin, mode string, durations map[string]string) error
}

// HoursCache stores opening-hours sheets keyed by normalized place name.
type HoursCache interface {
	Get(ctx context.Context, place string) (ports.PlaceHours, bool, error)
	Put(ctx context.Context, place string, hours ports.PlaceHours) error
}

// GoogleProvider implements TravelTimeProvider, TravelMatrixProvider and
// PlaceDirectory using the Google Maps Directions and Places services.
//
// It coordinates:
//   - Place-name normalization
//   - Persistent duration caching
//   - Opening-hours caching
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type GoogleProvider struct {
	session       *http.Client
	apiKey        string
	baseURL       string
	language      string
	durationCache DurationCache
	hoursCache    HoursCache
}

func NewGoogleProvider(apiKey string, durationCache DurationCache, hoursCache HoursCache) (*GoogleProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}

	return &GoogleProvider{
		session:       &http.Client{Timeout: 10 * time.Second},
		apiKey:        apiKey,
		baseURL:       "https://maps.googleapis.com/maps/api",
		language:      "zh-TW",
		durationCache: durationCache,
		hoursCache:    hoursCache,
	}, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (g *GoogleProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (g *GoogleProvider) travelMode(mode string) string {
	if mode == "" {
		return "driving"
	}
	return mode
}

// Delegate to the batched path to reuse the caching logic.
func (g *GoogleProvider) GetTravelDuration(
	ctx context.Context,
	origin string,
	destination string,
	mode string,
) (ports.TravelDuration, error) {
	normOrigin := g.normalize(origin)
	normDestination := g.normalize(destination)
	if normOrigin == "" || normDestination == "" {
		return ports.TravelDuration{}, errors.New("get travel duration: origin and destination must be non-empty")
	}

	results, err := g.GetTravelDurations(ctx, normOrigin, []string{normDestination}, mode)
	if err != nil {
		return ports.TravelDuration{}, fmt.Errorf(
			"get travel durations %q -> %q: %w", normOrigin, normDestination, err,
		)
	}

	result, ok := results[normDestination]
	if !ok {
		return ports.TravelDuration{}, fmt.Errorf("no travel duration for %q -> %q", origin, destination)
	}

	return result, nil
}

type directionsFetch struct {
	destination string
	text        string
	err         error
}

// GetTravelDurations resolves one origin against many destinations, serving
// what it can from the duration cache and fetching the misses with bounded
// concurrency. The Directions service answers one pair per call, so the
// batch here is cache-level, not wire-level.
func (g *GoogleProvider) GetTravelDurations(
	ctx context.Context,
	origin string,
	destinations []string,
	mode string,
) (_ map[string]ports.TravelDuration, err error) {
	defer obs.Time(ctx, "maps.GetTravelDurations")(&err)

	normOrigin := g.normalize(origin)
	if normOrigin == "" {
		return nil, errors.New("origin must be non-empty")
	}
	mode = g.travelMode(mode)

	seen := make(map[string]struct{}, len(destinations))
	destList := make([]string, 0, len(destinations))
	for _, d := range destinations {
		nd := g.normalize(d)
		if nd == "" || nd == normOrigin {
			continue
		}
		if _, ok := seen[nd]; ok {
			continue
		}
		seen[nd] = struct{}{}
		destList = append(destList, nd)
	}

	if len(destList) == 0 {
		return map[string]ports.TravelDuration{}, nil
	}

	hits := make(map[string]string)
	// Check the persistent cache before issuing external API calls.
	if g.durationCache != nil {
		hits, err = g.durationCache.GetMany(ctx, normOrigin, mode, destList)
		if err != nil {
			return nil, fmt.Errorf("duration cache read: %w", err)
		}
	}

	misses := make([]string, 0, len(destList))
	for _, d := range destList {
		if _, ok := hits[d]; !ok {
			misses = append(misses, d)
		}
	}

	fresh := make(map[string]string, len(misses))
	if len(misses) > 0 {
		fetchCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		sem := make(chan struct{}, 5)
		results := make(chan directionsFetch, len(misses))
		var wg sync.WaitGroup

		for _, d := range misses {
			wg.Add(1)
			go func(dest string) {
				sem <- struct{}{}
				defer wg.Done()
				defer func() { <-sem }()

				text, fetchErr := g.fetchDirections(fetchCtx, normOrigin, dest, mode)
				if fetchErr != nil {
					results <- directionsFetch{destination: dest, err: fetchErr}
					cancel()
					return
				}
				results <- directionsFetch{destination: dest, text: text}
			}(d)
		}

		wg.Wait()
		close(results)

		errByDest := make(map[string]error, len(misses))
		for r := range results {
			fresh[r.destination] = r.text
			errByDest[r.destination] = r.err
		}
		for _, d := range misses {
			if e := errByDest[d]; e != nil {
				return nil, fmt.Errorf("directions %q -> %q: %w", normOrigin, d, e)
			}
		}

		if g.durationCache != nil {
			if cacheErr := g.durationCache.PutMany(ctx, normOrigin, mode, fresh); cacheErr != nil {
				log.Printf("duration cache write failed: %v", cacheErr)
			}
		}
	}

	out := make(map[string]ports.TravelDuration, len(hits)+len(fresh))
	for d, text := range hits {
		out[d] = ports.TravelDuration{Text: text}
	}
	for d, text := range fresh {
		out[d] = ports.TravelDuration{Text: text}
	}

	return out, nil
}

// GetOpeningHours resolves a place's weekday lines. Sheets change rarely, so
// cache hits are served without touching the Places service.
func (g *GoogleProvider) GetOpeningHours(
	ctx context.Context,
	placeName string,
) (_ ports.PlaceHours, err error) {
	defer obs.Time(ctx, "maps.GetOpeningHours")(&err)

	norm := g.normalize(placeName)
	if norm == "" {
		return ports.PlaceHours{}, errors.New("get opening hours: place name must be non-empty")
	}

	if g.hoursCache != nil {
		hours, ok, cacheErr := g.hoursCache.Get(ctx, norm)
		if cacheErr != nil {
			return ports.PlaceHours{}, fmt.Errorf("hours cache read: %w", cacheErr)
		}
		if ok {
			return hours, nil
		}
	}

	hours, err := g.fetchOpeningHours(ctx, norm)
	if err != nil {
		return ports.PlaceHours{}, fmt.Errorf("fetch opening hours for %q: %w", norm, err)
	}

	if g.hoursCache != nil {
		if cacheErr := g.hoursCache.Put(ctx, norm, hours); cacheErr != nil {
			log.Printf("hours cache write failed: %v", cacheErr)
		}
	}

	return hours, nil
}
