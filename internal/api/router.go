package api

import (
	"net/http"

	"trip-validation-service/internal/api/handlers"
	"trip-validation-service/internal/ports"
	"trip-validation-service/internal/services"
)

// RouterOptions carries the resolved defaults handlers fall back to when a
// request leaves them unspecified.
type RouterOptions struct {
	Check    services.CheckConfig
	Mode     string
	DayStart int // minutes since midnight
	DayEnd   int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(travel ports.TravelTimeProvider, places ports.PlaceDirectory, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	validateHandler := &handlers.ValidateHandler{
		Travel: travel,
		Places: places,
		Config: opts.Check,
	}
	sequenceHandler := &handlers.SequenceHandler{
		Travel:          travel,
		Places:          places,
		Check:           opts.Check,
		DefaultMode:     opts.Mode,
		DefaultDayStart: opts.DayStart,
		DefaultDayEnd:   opts.DayEnd,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/itinerary/validate", validateHandler.Validate)
	mux.HandleFunc("/itinerary/sequence", sequenceHandler.Sequence)

	return loggingMiddleware(mux)
}
