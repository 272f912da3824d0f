package ports

import "context"

// PlaceHours is the opening-hours sheet for a place: one localized line per
// weekday, in the provider's order.
type PlaceHours struct {
	Name         string
	WeekdayLines []string
}

// Port: a boundary for resolving a place name to its opening-hours sheet.
type PlaceDirectory interface {
	GetOpeningHours(ctx context.Context, placeName string) (PlaceHours, error)
}
