package ports

import "context"

// TravelDuration is a provider's answer for one origin->destination leg.
// Text is localized free-form duration text ("20 分鐘"); the core parses it
// into minutes at the point of use.
type TravelDuration struct {
	Text string
}

// Contract for retrieving point-to-point travel durations. Mode is the
// provider's travel profile ("driving", "transit").
type TravelTimeProvider interface {
	// Return the estimated travel duration between two named places.
	GetTravelDuration(ctx context.Context, origin, destination, mode string) (TravelDuration, error)
}
