package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"trip-validation-service/internal/api/dto"
	"trip-validation-service/internal/itinerary"
	"trip-validation-service/internal/ports"
	"trip-validation-service/internal/services"
)

type ValidateHandler struct {
	Travel ports.TravelTimeProvider
	Places ports.PlaceDirectory
	Config services.CheckConfig
}

// Validate runs the full feasibility check suite over a posted itinerary.
// Infeasible itineraries are a normal 200 response with success=false;
// only malformed input and upstream failures are HTTP errors.
func (h *ValidateHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	defer r.Body.Close()

	it, err := itinerary.Decode(r.Body)
	if err != nil {
		var pe *itinerary.ParseError
		if errors.As(err, &pe) {
			writeError(w, r, http.StatusBadRequest, pe.Error())
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	cfg := h.Config
	if mode := strings.TrimSpace(r.URL.Query().Get("mode")); mode != "" {
		cfg.Budget.Mode = mode
	}

	res, err := services.CheckItinerary(r.Context(), it, h.Travel, h.Places, cfg)
	if err != nil {
		log.Printf("check itinerary failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromValidationResult(res))
}
