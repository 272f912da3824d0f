// Package itinerary decodes the generation collaborator's JSON into domain
// types at the service boundary. The generator's output is loosely shaped,
// so malformed input is rejected here with a typed ParseError instead of
// surfacing as a late lookup failure inside a validator.
package itinerary

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"trip-validation-service/internal/domain"
	"trip-validation-service/internal/parse"
)

// ParseError describes a rejected itinerary payload.
type ParseError struct {
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse itinerary: %s: %s", e.Field, e.Reason)
}

type itineraryJSON struct {
	Days []dayJSON `json:"days"`
}

type dayJSON struct {
	Day        int            `json:"day"`
	Weekday    string         `json:"weekday"`
	Activities []activityJSON `json:"activities"`
}

type activityJSON struct {
	Time        string       `json:"time"`
	PlaceName   string       `json:"place_name"`
	Type        string       `json:"type"`
	Location    locationJSON `json:"location"`
	Cost        string       `json:"cost"`
	Description string       `json:"description"`
}

type locationJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Decode reads one itinerary JSON object. Unknown fields are rejected so a
// drifting generator schema fails loudly rather than being half-read.
func Decode(r io.Reader) (domain.Itinerary, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var raw itineraryJSON
	if err := dec.Decode(&raw); err != nil {
		return domain.Itinerary{}, &ParseError{Field: "body", Reason: err.Error()}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return domain.Itinerary{}, &ParseError{Field: "body", Reason: "must contain only one JSON object"}
	}

	return fromRaw(raw)
}

func fromRaw(raw itineraryJSON) (domain.Itinerary, error) {
	if len(raw.Days) == 0 {
		return domain.Itinerary{}, &ParseError{Field: "days", Reason: "must not be empty"}
	}

	it := domain.Itinerary{Days: make([]domain.DayPlan, 0, len(raw.Days))}
	for i, d := range raw.Days {
		if d.Day <= 0 {
			return domain.Itinerary{}, &ParseError{
				Field:  fmt.Sprintf("days[%d].day", i),
				Reason: "must be a positive day number",
			}
		}
		if !parse.IsWeekdayLabel(d.Weekday) {
			return domain.Itinerary{}, &ParseError{
				Field:  fmt.Sprintf("days[%d].weekday", i),
				Reason: fmt.Sprintf("%q is not a weekday label", d.Weekday),
			}
		}

		day := domain.DayPlan{Day: d.Day, Weekday: d.Weekday, Visits: make([]domain.Visit, 0, len(d.Activities))}
		for j, a := range d.Activities {
			field := fmt.Sprintf("days[%d].activities[%d]", i, j)

			if strings.TrimSpace(a.PlaceName) == "" {
				return domain.Itinerary{}, &ParseError{Field: field + ".place_name", Reason: "must not be empty"}
			}
			minute, err := parse.Clock(a.Time)
			if err != nil {
				return domain.Itinerary{}, &ParseError{Field: field + ".time", Reason: err.Error()}
			}

			day.Visits = append(day.Visits, domain.Visit{
				Place:       strings.TrimSpace(a.PlaceName),
				Location:    domain.Coordinates{Lat: a.Location.Lat, Lng: a.Location.Lng},
				Minute:      minute,
				Type:        a.Type,
				Cost:        a.Cost,
				Description: a.Description,
			})
		}
		it.Days = append(it.Days, day)
	}

	return it, nil
}
