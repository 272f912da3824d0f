package services

import (
	"context"
	"strings"
	"testing"

	"trip-validation-service/internal/adapters/maps"
	"trip-validation-service/internal/domain"
	"trip-validation-service/internal/ports"
)

var museumHours = ports.PlaceHours{
	Name: "故宮博物院",
	WeekdayLines: []string{
		"星期一: 休息",
		"星期二: 09:00 – 19:00",
		"星期三: 09:00 – 19:00",
		"星期四: 09:00 – 19:00",
		"星期五: 09:00 – 19:00",
		"星期六: 09:00 – 19:00",
		"星期日: 09:00 – 19:00",
	},
}

func hoursItinerary(minute int) domain.Itinerary {
	return domain.Itinerary{Days: []domain.DayPlan{
		{Day: 1, Weekday: "星期六", Visits: []domain.Visit{
			{Place: "故宮博物院", Minute: minute},
		}},
	}}
}

func TestValidateOpeningHoursInsideWindow(t *testing.T) {
	provider := maps.NewMockProvider(nil, []ports.PlaceHours{museumHours})

	res, err := ValidateOpeningHours(context.Background(), hoursItinerary(600), provider) // 10:00
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success {
		t.Fatalf("10:00 should fall inside 09:00-19:00, got %q", res.Message)
	}
}

func TestValidateOpeningHoursOutsideWindow(t *testing.T) {
	provider := maps.NewMockProvider(nil, []ports.PlaceHours{museumHours})

	res, err := ValidateOpeningHours(context.Background(), hoursItinerary(1200), provider) // 20:00
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Success {
		t.Fatal("20:00 should fall outside 09:00-19:00")
	}
	for _, want := range []string{"故宮博物院", "星期六", "20:00", "09:00-19:00"} {
		if !strings.Contains(res.Message, want) {
			t.Errorf("message missing %q: %q", want, res.Message)
		}
	}
	if res.ProblemDay != 1 || res.ProblemPlace != "故宮博物院" {
		t.Fatalf("diagnostics wrong: day=%d place=%q", res.ProblemDay, res.ProblemPlace)
	}
}

func TestValidateOpeningHoursClosedDay(t *testing.T) {
	provider := maps.NewMockProvider(nil, []ports.PlaceHours{museumHours})

	it := domain.Itinerary{Days: []domain.DayPlan{
		{Day: 1, Weekday: "星期一", Visits: []domain.Visit{
			{Place: "故宮博物院", Minute: 600},
		}},
	}}
	res, err := ValidateOpeningHours(context.Background(), it, provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Success {
		t.Fatal("visit on a rest day should fail")
	}
	if !strings.Contains(res.Message, "closed") {
		t.Fatalf("expected closed-day message, got %q", res.Message)
	}
}

func TestValidateOpeningHoursMissingWeekdayLine(t *testing.T) {
	partial := ports.PlaceHours{Name: "夜市", WeekdayLines: []string{"星期五: 17:00 – 23:00"}}
	provider := maps.NewMockProvider(nil, []ports.PlaceHours{partial})

	it := domain.Itinerary{Days: []domain.DayPlan{
		{Day: 2, Weekday: "星期六", Visits: []domain.Visit{
			{Place: "夜市", Minute: 1080},
		}},
	}}
	res, err := ValidateOpeningHours(context.Background(), it, provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Success {
		t.Fatal("missing weekday line should fail the check")
	}
	if !strings.Contains(res.Message, "no opening-hours data") {
		t.Fatalf("expected no-data message, got %q", res.Message)
	}
}

func TestValidateOpeningHoursProviderFailure(t *testing.T) {
	provider := maps.NewMockProvider(nil, nil) // every lookup fails

	_, err := ValidateOpeningHours(context.Background(), hoursItinerary(600), provider)
	if err == nil {
		t.Fatal("expected provider error")
	}
	if !strings.Contains(err.Error(), "故宮博物院") {
		t.Fatalf("error should name the place, got %v", err)
	}
}
