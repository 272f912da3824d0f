package services

import (
	"context"
	"fmt"
	"sync"

	"trip-validation-service/internal/domain"
	"trip-validation-service/internal/parse"
	"trip-validation-service/internal/ports"
)

// CheckConfig aggregates the per-validator thresholds. The values are fixed
// at startup; validators receive them explicitly rather than reading ambient
// globals.
type CheckConfig struct {
	Budget BudgetConfig
	Detour DetourConfig
}

// CheckItinerary runs the time-budget, opening-hours and detour checks over
// an already-ordered itinerary. The two network-bound validators and the
// purely geometric one are independent passes and run concurrently; results
// are joined and reported in a fixed order (budget, hours, detour) so the
// outcome is deterministic. Provider errors surface as errors; a failed
// check is a regular result with Success=false.
func CheckItinerary(
	ctx context.Context,
	it domain.Itinerary,
	travel ports.TravelTimeProvider,
	places ports.PlaceDirectory,
	cfg CheckConfig,
) (domain.ValidationResult, error) {
	if r := checkVisitTimesOrdered(it); !r.Success {
		return r, nil
	}

	var (
		budgetRes, hoursRes, detourRes domain.ValidationResult
		budgetErr, hoursErr            error
		wg                             sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		budgetRes, budgetErr = ValidateTimeBudget(ctx, it, travel, cfg.Budget)
	}()
	go func() {
		defer wg.Done()
		hoursRes, hoursErr = ValidateOpeningHours(ctx, it, places)
	}()
	go func() {
		defer wg.Done()
		detourRes = ValidateDetour(it, cfg.Detour)
	}()
	wg.Wait()

	if budgetErr != nil {
		return domain.ValidationResult{}, fmt.Errorf("check itinerary: %w", budgetErr)
	}
	if hoursErr != nil {
		return domain.ValidationResult{}, fmt.Errorf("check itinerary: %w", hoursErr)
	}

	for _, r := range []domain.ValidationResult{budgetRes, hoursRes, detourRes} {
		if !r.Success {
			return r, nil
		}
	}

	return domain.Valid("itinerary passes time-budget, opening-hours and detour checks"), nil
}

// checkVisitTimesOrdered verifies that scheduled times are non-decreasing
// along each day's stored visiting order. The order itself is authoritative,
// so a violation is reported, never corrected by re-sorting.
func checkVisitTimesOrdered(it domain.Itinerary) domain.ValidationResult {
	for _, day := range it.Days {
		for i := 1; i < len(day.Visits); i++ {
			prev, cur := day.Visits[i-1], day.Visits[i]
			if cur.Minute < prev.Minute {
				r := domain.Invalid(fmt.Sprintf(
					"day %d: %s at %s is scheduled before the preceding stop %s at %s",
					day.Day, cur.Place, parse.FormatClock(cur.Minute),
					prev.Place, parse.FormatClock(prev.Minute),
				))
				r.ProblemDay = day.Day
				r.ProblemPlace = cur.Place
				return r
			}
		}
	}
	return domain.Valid("")
}
