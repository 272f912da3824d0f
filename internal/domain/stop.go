package domain

// Stop is a named place a traveller may visit. HourLines holds the raw
// per-weekday opening-hours text in provider order; it stays unparsed here
// so the same Stop can be resolved against different dates.
type Stop struct {
	Name         string
	Location     Coordinates
	HourLines    []string
	VisitMinutes int
}
