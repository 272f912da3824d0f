package ports

import "context"

// Optional extension of TravelTimeProvider that supports batched lookups.
type TravelMatrixProvider interface {
	TravelTimeProvider
	// Return travel durations from one origin to many destinations.
	GetTravelDurations(ctx context.Context, origin string, destinations []string, mode string) (map[string]TravelDuration, error)
}
