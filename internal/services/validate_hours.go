package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"trip-validation-service/internal/domain"
	"trip-validation-service/internal/parse"
	"trip-validation-service/internal/ports"
)

type hoursLookup struct {
	place string
	hours ports.PlaceHours
	err   error
}

// ValidateOpeningHours checks every visit's scheduled time against the
// opening window resolved for its day. Place lookups are independent and fan
// out concurrently; evaluation then walks the itinerary in sequence order so
// the first reported violation is deterministic. Any single violation aborts
// the check.
func ValidateOpeningHours(
	ctx context.Context,
	it domain.Itinerary,
	directory ports.PlaceDirectory,
) (domain.ValidationResult, error) {
	places := distinctPlaces(it)
	if len(places) == 0 {
		return domain.Valid("no visits to check"), nil
	}

	sheets, err := fetchPlaceHours(ctx, places, directory)
	if err != nil {
		return domain.ValidationResult{}, fmt.Errorf("validate opening hours: %w", err)
	}

	for _, day := range it.Days {
		for _, visit := range day.Visits {
			if r := checkVisitWindow(day, visit, sheets[visit.Place]); !r.Success {
				return r, nil
			}
		}
	}

	return domain.Valid("every visit falls within its place's opening hours"), nil
}

// checkVisitWindow resolves one visit against its place's weekday line.
func checkVisitWindow(day domain.DayPlan, visit domain.Visit, hours ports.PlaceHours) domain.ValidationResult {
	var line string
	for _, l := range hours.WeekdayLines {
		if strings.HasPrefix(strings.TrimSpace(l), day.Weekday) {
			line = l
			break
		}
	}
	if line == "" {
		r := domain.Invalid(fmt.Sprintf(
			"no opening-hours data for %s on %s (day %d)",
			visit.Place, day.Weekday, day.Day,
		))
		r.ProblemDay = day.Day
		r.ProblemPlace = visit.Place
		return r
	}

	win, err := parse.WindowFromLine(line)
	if err != nil {
		// A malformed line is a hard failure for this stop; the wrapped
		// error carries the offending provider text for inspection.
		r := domain.Invalid(fmt.Sprintf(
			"day %d: cannot parse opening hours for %s: %v", day.Day, visit.Place, err,
		))
		r.ProblemDay = day.Day
		r.ProblemPlace = visit.Place
		return r
	}

	if win.Closed {
		r := domain.Invalid(fmt.Sprintf(
			"%s is closed on %s (day %d)", visit.Place, day.Weekday, day.Day,
		))
		r.ProblemDay = day.Day
		r.ProblemPlace = visit.Place
		return r
	}

	if !win.Contains(visit.Minute) {
		r := domain.Invalid(fmt.Sprintf(
			"%s is scheduled at %s on %s (day %d), outside opening hours %s",
			visit.Place, parse.FormatClock(visit.Minute), day.Weekday, day.Day, win,
		))
		r.ProblemDay = day.Day
		r.ProblemPlace = visit.Place
		return r
	}

	return domain.Valid("")
}

// distinctPlaces returns unique place names in first-seen itinerary order.
func distinctPlaces(it domain.Itinerary) []string {
	seen := make(map[string]struct{})
	places := []string{}
	for _, day := range it.Days {
		for _, v := range day.Visits {
			if _, ok := seen[v.Place]; ok {
				continue
			}
			seen[v.Place] = struct{}{}
			places = append(places, v.Place)
		}
	}
	return places
}

// fetchPlaceHours resolves opening-hours sheets for all places concurrently,
// cancelling siblings on the first failure and reporting the first error in
// place order.
func fetchPlaceHours(
	ctx context.Context,
	places []string,
	directory ports.PlaceDirectory,
) (map[string]ports.PlaceHours, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, maxConcurrentLookups)
	results := make(chan hoursLookup, len(places))
	var wg sync.WaitGroup

	for _, place := range places {
		wg.Add(1)
		go func(place string) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			hours, err := directory.GetOpeningHours(ctx, place)
			if err != nil {
				results <- hoursLookup{place: place, err: fmt.Errorf(
					"get opening hours for %q: %w", place, err,
				)}
				cancel()
				return
			}
			results <- hoursLookup{place: place, hours: hours}
		}(place)
	}

	wg.Wait()
	close(results)

	sheets := make(map[string]ports.PlaceHours, len(places))
	errByPlace := make(map[string]error, len(places))
	for r := range results {
		sheets[r.place] = r.hours
		errByPlace[r.place] = r.err
	}
	for _, place := range places {
		if err := errByPlace[place]; err != nil {
			return nil, err
		}
	}

	return sheets, nil
}
