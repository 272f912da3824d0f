package services

import (
	"context"
	"fmt"
	"sync"

	"trip-validation-service/internal/domain"
	"trip-validation-service/internal/parse"
	"trip-validation-service/internal/ports"
)

// Upper bound on in-flight provider lookups per check.
const maxConcurrentLookups = 5

// BudgetConfig carries the fixed thresholds for the travel-time budget
// check. Values are resolved once at startup and passed in explicitly so
// tests can vary them without process-wide state.
type BudgetConfig struct {
	BufferMinutes  int
	CeilingMinutes int
	Mode           string
	// ResetPerDay compares each day against the ceiling separately instead
	// of accumulating travel time across the whole trip.
	ResetPerDay bool
}

type travelLeg struct {
	index       int
	day         int
	origin      string
	destination string
}

type legDuration struct {
	index   int
	minutes int
	err     error
}

// ValidateTimeBudget sums travel durations over every consecutive pair of
// visits within each day, adds a fixed per-leg buffer, and checks the
// accumulated total against the trip ceiling. Leg queries are independent
// and fan out concurrently; a provider failure on any leg aborts the whole
// check naming the offending pair. No partial credit: one unreachable leg
// fails the plan.
func ValidateTimeBudget(
	ctx context.Context,
	it domain.Itinerary,
	provider ports.TravelTimeProvider,
	cfg BudgetConfig,
) (domain.ValidationResult, error) {
	legs := collectLegs(it)
	if len(legs) == 0 {
		return domain.Valid("no travel legs to check"), nil
	}

	minutes, err := fetchLegDurations(ctx, legs, provider, cfg.Mode)
	if err != nil {
		return domain.ValidationResult{}, fmt.Errorf("validate time budget: %w", err)
	}

	if cfg.ResetPerDay {
		perDay := make(map[int]int)
		for _, leg := range legs {
			perDay[leg.day] += minutes[leg.index] + cfg.BufferMinutes
		}
		for _, day := range it.Days {
			if total := perDay[day.Day]; total > cfg.CeilingMinutes {
				r := domain.Invalid(fmt.Sprintf(
					"day %d travel time %d minutes exceeds the %d-minute ceiling",
					day.Day, total, cfg.CeilingMinutes,
				))
				r.ProblemDay = day.Day
				return r, nil
			}
		}
		return domain.Valid(fmt.Sprintf(
			"every day fits within the %d-minute travel ceiling", cfg.CeilingMinutes,
		)), nil
	}

	total := 0
	for _, leg := range legs {
		total += minutes[leg.index] + cfg.BufferMinutes
	}

	if total > cfg.CeilingMinutes {
		return domain.Invalid(fmt.Sprintf(
			"total travel time %d minutes exceeds the %d-minute ceiling",
			total, cfg.CeilingMinutes,
		)), nil
	}

	return domain.Valid(fmt.Sprintf(
		"travel plan fits within the %d-minute ceiling (total travel %d minutes)",
		cfg.CeilingMinutes, total,
	)), nil
}

// collectLegs flattens the itinerary into consecutive visit pairs. Legs only
// exist within a day; a day's last stop and the next day's first are not
// connected.
func collectLegs(it domain.Itinerary) []travelLeg {
	legs := []travelLeg{}
	for _, day := range it.Days {
		for i := 0; i+1 < len(day.Visits); i++ {
			legs = append(legs, travelLeg{
				index:       len(legs),
				day:         day.Day,
				origin:      day.Visits[i].Place,
				destination: day.Visits[i+1].Place,
			})
		}
	}
	return legs
}

// fetchLegDurations resolves all legs concurrently and joins the results in
// leg order. The first error in leg order wins, preserving fail-fast
// semantics with deterministic output; the shared context is cancelled as
// soon as any lookup fails so siblings stop early.
func fetchLegDurations(
	ctx context.Context,
	legs []travelLeg,
	provider ports.TravelTimeProvider,
	mode string,
) ([]int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, maxConcurrentLookups)
	results := make(chan legDuration, len(legs))
	var wg sync.WaitGroup

	for _, leg := range legs {
		wg.Add(1)
		go func(leg travelLeg) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			d, err := provider.GetTravelDuration(ctx, leg.origin, leg.destination, mode)
			if err != nil {
				results <- legDuration{index: leg.index, err: fmt.Errorf(
					"get travel duration from %q to %q: %w", leg.origin, leg.destination, err,
				)}
				cancel()
				return
			}
			results <- legDuration{index: leg.index, minutes: parse.Duration(d.Text)}
		}(leg)
	}

	wg.Wait()
	close(results)

	minutes := make([]int, len(legs))
	errs := make([]error, len(legs))
	for r := range results {
		minutes[r.index] = r.minutes
		errs[r.index] = r.err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return minutes, nil
}
