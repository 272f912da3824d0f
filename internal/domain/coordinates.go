package domain

// Immutable geographic coordinates in floating-point degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

// IsZero reports whether both components are exactly zero, the placeholder
// the itinerary generator emits when it has no real geometry for a place.
func (c Coordinates) IsZero() bool { return c.Lat == 0 && c.Lng == 0 }
