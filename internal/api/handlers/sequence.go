package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"trip-validation-service/internal/api/dto"
	"trip-validation-service/internal/domain"
	"trip-validation-service/internal/parse"
	"trip-validation-service/internal/ports"
	"trip-validation-service/internal/services"
)

const maxSequenceStops = 20

type SequenceHandler struct {
	Travel ports.TravelTimeProvider
	Places ports.PlaceDirectory
	Check  services.CheckConfig

	DefaultMode     string
	DefaultDayStart int
	DefaultDayEnd   int
}

// Sequence orders an unordered stop set into a feasible day plan. Stops may
// carry their own opening-hours lines; those without are looked up in the
// place directory. With validate=true the resulting plan is run back through
// the standard checks as a consistency guarantee.
func (h *SequenceHandler) Sequence(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.SequenceRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
		return
	}

	if len(req.Stops) == 0 {
		writeError(w, r, http.StatusBadRequest, "stops must not be empty")
		return
	}
	if len(req.Stops) > maxSequenceStops {
		writeError(w, r, http.StatusBadRequest,
			fmt.Sprintf("stops must not exceed %d entries", maxSequenceStops))
		return
	}

	dayStart, dayEnd := h.DefaultDayStart, h.DefaultDayEnd
	if req.DayStart != "" {
		if dayStart, err = parse.Clock(req.DayStart); err != nil {
			writeError(w, r, http.StatusBadRequest, "day_start must be formatted HH:MM")
			return
		}
	}
	if req.DayEnd != "" {
		if dayEnd, err = parse.Clock(req.DayEnd); err != nil {
			writeError(w, r, http.StatusBadRequest, "day_end must be formatted HH:MM")
			return
		}
	}
	if dayEnd <= dayStart {
		writeError(w, r, http.StatusBadRequest, "day_end must be after day_start")
		return
	}

	mode := strings.TrimSpace(req.Mode)
	if mode == "" {
		mode = h.DefaultMode
	}

	for i, s := range req.Stops {
		if strings.TrimSpace(s.Name) == "" {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("stops[%d].name must not be empty", i))
			return
		}
	}

	stops, err := h.buildStops(r, req.Stops)
	if err != nil {
		log.Printf("resolve stop hours failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	cfg := services.SequenceConfig{
		Date:     date,
		DayStart: dayStart,
		DayEnd:   dayEnd,
		Mode:     mode,
	}

	seq, err := services.SequenceDay(r.Context(), stops, h.Travel, cfg)
	if err != nil {
		log.Printf("sequence day failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.SequenceResponse{
		Feasible:      seq.Feasible,
		Optimal:       seq.Optimal,
		TravelMinutes: seq.TravelMinutes,
		ProblemStop:   seq.ProblemStop,
		Visits:        make([]dto.SequenceVisitResponse, 0, len(seq.Visits)),
	}
	for _, v := range seq.Visits {
		res.Visits = append(res.Visits, dto.SequenceVisitResponse{
			Place:    v.Stop.Name,
			Location: dto.LocationResponse{Lat: v.Stop.Location.Lat, Lng: v.Stop.Location.Lng},
			Arrive:   parse.FormatClock(v.Arrive),
			Depart:   parse.FormatClock(v.Depart),
		})
	}

	if req.Validate && seq.Feasible {
		plan := seq.DayPlan(1, date)
		check := h.Check
		check.Budget.Mode = mode

		vr, err := services.CheckItinerary(r.Context(), domain.Itinerary{Days: []domain.DayPlan{plan}}, h.Travel, h.Places, check)
		if err != nil {
			log.Printf("validate sequenced plan failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		vres := dto.FromValidationResult(vr)
		res.Validation = &vres
	}

	writeJSON(w, r, http.StatusOK, res)
}

// buildStops converts request stops to domain stops, filling in hours from
// the directory when the request omits them.
func (h *SequenceHandler) buildStops(r *http.Request, in []dto.SequenceStop) ([]domain.Stop, error) {
	stops := make([]domain.Stop, 0, len(in))
	for _, s := range in {
		name := strings.TrimSpace(s.Name)

		visitMinutes := s.VisitMinutes
		if visitMinutes <= 0 {
			visitMinutes = 60
		}

		lines := s.OpeningHours
		if len(lines) == 0 && h.Places != nil {
			hours, err := h.Places.GetOpeningHours(r.Context(), name)
			if err != nil {
				return nil, fmt.Errorf("opening hours for %q: %w", name, err)
			}
			lines = hours.WeekdayLines
		}

		stops = append(stops, domain.Stop{
			Name:         name,
			Location:     domain.Coordinates{Lat: s.Location.Lat, Lng: s.Location.Lng},
			HourLines:    lines,
			VisitMinutes: visitMinutes,
		})
	}
	return stops, nil
}
