package dto

type SequenceStop struct {
	Name         string           `json:"name"`
	Location     LocationResponse `json:"location"`
	VisitMinutes int              `json:"visit_minutes"`
	OpeningHours []string         `json:"opening_hours"`
}

type SequenceRequest struct {
	Date     string         `json:"date"`
	Mode     string         `json:"mode"`
	DayStart string         `json:"day_start"`
	DayEnd   string         `json:"day_end"`
	Validate bool           `json:"validate"`
	Stops    []SequenceStop `json:"stops"`
}

type LocationResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type SequenceVisitResponse struct {
	Place    string           `json:"place"`
	Location LocationResponse `json:"location"`
	Arrive   string           `json:"arrive"`
	Depart   string           `json:"depart"`
}

type SequenceResponse struct {
	Feasible      bool                    `json:"feasible"`
	Optimal       bool                    `json:"optimal"`
	TravelMinutes int                     `json:"travel_minutes"`
	ProblemStop   string                  `json:"problem_stop,omitempty"`
	Visits        []SequenceVisitResponse `json:"visits"`
	Validation    *ValidationResponse     `json:"validation,omitempty"`
}
