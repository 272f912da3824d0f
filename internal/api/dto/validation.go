package dto

import "trip-validation-service/internal/domain"

type ValidationResponse struct {
	Success      bool    `json:"success"`
	Message      string  `json:"message"`
	ProblemDay   int     `json:"problem_day,omitempty"`
	ProblemPlace string  `json:"problem_place,omitempty"`
	Angle        float64 `json:"angle,omitempty"`
}

func FromValidationResult(r domain.ValidationResult) ValidationResponse {
	return ValidationResponse{
		Success:      r.Success,
		Message:      r.Message,
		ProblemDay:   r.ProblemDay,
		ProblemPlace: r.ProblemPlace,
		Angle:        r.Angle,
	}
}
