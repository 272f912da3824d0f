package services

import (
	"fmt"
	"math"

	"trip-validation-service/internal/domain"
)

// DetourConfig carries the turning-angle threshold in degrees. Angles below
// it mark a route that goes out and doubles back sharply.
type DetourConfig struct {
	ThresholdDegrees float64
}

// ValidateDetour walks every consecutive stop triple of each day and flags
// sharp back-tracking via the turning angle at the middle stop. Coordinates
// are treated as planar, an acceptable approximation at intra-city scale.
// A straight-through path has angles near 180 degrees. This is a smoothness
// heuristic, not a proof of route optimality. The check stops at the first
// violation, per day then across days in sequence order.
func ValidateDetour(it domain.Itinerary, cfg DetourConfig) domain.ValidationResult {
	for _, day := range it.Days {
		for i := 0; i+2 < len(day.Visits); i++ {
			a := day.Visits[i].Location
			b := day.Visits[i+1].Location
			c := day.Visits[i+2].Location

			angle, ok := turningAngle(a, b, c)
			if !ok {
				// Duplicate coordinates leave the angle undefined; skip.
				continue
			}

			if angle < cfg.ThresholdDegrees {
				rounded := math.Round(angle*100) / 100
				r := domain.Invalid(fmt.Sprintf(
					"day %d: route doubles back at %s (turning angle %.2f° is below %.0f°)",
					day.Day, day.Visits[i+1].Place, rounded, cfg.ThresholdDegrees,
				))
				r.ProblemDay = day.Day
				r.ProblemPlace = day.Visits[i+1].Place
				r.Angle = rounded
				return r
			}
		}
	}

	return domain.Valid("route geometry is smooth; no sharp detours found")
}

// turningAngle computes the interior angle at b, in degrees, formed by the
// vectors b->a and b->c. The cosine is clamped to [-1, 1] to absorb
// floating-point overshoot before acos.
func turningAngle(a, b, c domain.Coordinates) (float64, bool) {
	baLat, baLng := a.Lat-b.Lat, a.Lng-b.Lng
	bcLat, bcLng := c.Lat-b.Lat, c.Lng-b.Lng

	magBA := math.Hypot(baLat, baLng)
	magBC := math.Hypot(bcLat, bcLng)
	if magBA == 0 || magBC == 0 {
		return 0, false
	}

	cos := (baLat*bcLat + baLng*bcLng) / (magBA * magBC)
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi, true
}
