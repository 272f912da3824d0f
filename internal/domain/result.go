package domain

// ValidationResult is the outcome of one feasibility pass over an itinerary.
// A false Success with a populated Message is the expected negative outcome
// of a check; provider and parse failures surface through the same shape so
// callers always receive a human-readable diagnosis.
type ValidationResult struct {
	Success      bool    `json:"success"`
	Message      string  `json:"message"`
	ProblemDay   int     `json:"problem_day,omitempty"`
	ProblemPlace string  `json:"problem_place,omitempty"`
	Angle        float64 `json:"angle,omitempty"`
}

func Valid(msg string) ValidationResult {
	return ValidationResult{Success: true, Message: msg}
}

func Invalid(msg string) ValidationResult {
	return ValidationResult{Message: msg}
}
