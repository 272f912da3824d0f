package domain

// Visit is one scheduled activity inside a DayPlan. Minute is the scheduled
// start in minutes since local midnight; Type carries the generator's
// category tag (景點/美食/交通/住宿) and is informational only.
type Visit struct {
	Place       string
	Location    Coordinates
	Minute      int
	Type        string
	Cost        string
	Description string
}

// DayPlan is one calendar day of an itinerary. Slice position in Visits is
// the authoritative visiting order; scheduled times are advisory and a
// violation of their monotonicity is reported, never corrected by re-sorting.
type DayPlan struct {
	Day     int
	Weekday string
	Visits  []Visit
}

// Itinerary is the full multi-day plan produced by the generation
// collaborator. Validators treat it as read-only input.
type Itinerary struct {
	Days []DayPlan
}
