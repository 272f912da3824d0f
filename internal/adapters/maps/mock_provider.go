package maps

import (
	"context"
	"fmt"

	"trip-validation-service/internal/ports"
)

type MockLeg struct {
	From, To string
	Duration string // localized duration text, e.g. "30 分鐘"
}

// MockProvider is a deterministic in-memory stand-in for the Google Maps
// provider, used by tests. Travel mode is ignored: mock legs answer for any
// mode.
type MockProvider struct {
	legs  map[string]ports.TravelDuration
	hours map[string]ports.PlaceHours
}

func NewMockProvider(legs []MockLeg, hours []ports.PlaceHours) *MockProvider {
	m := &MockProvider{
		legs:  make(map[string]ports.TravelDuration, len(legs)),
		hours: make(map[string]ports.PlaceHours, len(hours)),
	}
	for _, l := range legs {
		m.legs[l.From+"|"+l.To] = ports.TravelDuration{Text: l.Duration}
	}
	for _, h := range hours {
		m.hours[h.Name] = h
	}
	return m
}

func (p *MockProvider) GetTravelDuration(ctx context.Context, origin, destination, mode string) (ports.TravelDuration, error) {
	d, ok := p.legs[origin+"|"+destination]
	if !ok {
		return ports.TravelDuration{}, fmt.Errorf("missing mock leg %q -> %q", origin, destination)
	}
	return d, nil
}

func (p *MockProvider) GetOpeningHours(ctx context.Context, placeName string) (ports.PlaceHours, error) {
	h, ok := p.hours[placeName]
	if !ok {
		return ports.PlaceHours{}, fmt.Errorf("missing mock opening hours for %q", placeName)
	}
	return h, nil
}
