package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trip-validation-service/internal/adapters/maps"
	"trip-validation-service/internal/api/dto"
	"trip-validation-service/internal/ports"
	"trip-validation-service/internal/services"
)

var openAllWeek = []string{
	"星期一: 24 小時營業", "星期二: 24 小時營業", "星期三: 24 小時營業",
	"星期四: 24 小時營業", "星期五: 24 小時營業", "星期六: 24 小時營業",
	"星期日: 24 小時營業",
}

func testProvider() *maps.MockProvider {
	return maps.NewMockProvider(
		[]maps.MockLeg{
			{From: "台北101", To: "鼎泰豐", Duration: "20 分鐘"},
			{From: "鼎泰豐", To: "台北101", Duration: "20 分鐘"},
		},
		[]ports.PlaceHours{
			{Name: "台北101", WeekdayLines: openAllWeek},
			{Name: "鼎泰豐", WeekdayLines: openAllWeek},
		},
	)
}

func testCheckConfig() services.CheckConfig {
	return services.CheckConfig{
		Budget: services.BudgetConfig{BufferMinutes: 20, CeilingMinutes: 720, Mode: "driving"},
		Detour: services.DetourConfig{ThresholdDegrees: 60},
	}
}

const validateBody = `{
  "days": [
    {
      "day": 1,
      "weekday": "星期六",
      "activities": [
        {"time": "10:00", "place_name": "台北101", "type": "景點",
         "location": {"lat": 25.033, "lng": 121.564}, "cost": "600元", "description": ""},
        {"time": "12:30", "place_name": "鼎泰豐", "type": "美食",
         "location": {"lat": 25.033, "lng": 121.530}, "cost": "800元", "description": ""}
      ]
    }
  ]
}`

func TestValidateHandlerSuccess(t *testing.T) {
	provider := testProvider()
	h := &ValidateHandler{Travel: provider, Places: provider, Config: testCheckConfig()}

	req := httptest.NewRequest(http.MethodPost, "/itinerary/validate", strings.NewReader(validateBody))
	rec := httptest.NewRecorder()
	h.Validate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var res dto.ValidationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
}

func TestValidateHandlerRejectsMalformedBody(t *testing.T) {
	provider := testProvider()
	h := &ValidateHandler{Travel: provider, Places: provider, Config: testCheckConfig()}

	req := httptest.NewRequest(http.MethodPost, "/itinerary/validate", strings.NewReader(`{"days": [], "extra": 1}`))
	rec := httptest.NewRecorder()
	h.Validate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestValidateHandlerRejectsGet(t *testing.T) {
	h := &ValidateHandler{Config: testCheckConfig()}

	req := httptest.NewRequest(http.MethodGet, "/itinerary/validate", nil)
	rec := httptest.NewRecorder()
	h.Validate(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestValidateHandlerReportsInfeasibility(t *testing.T) {
	// A single monstrous leg blows through the trip ceiling on its own.
	provider := maps.NewMockProvider(
		[]maps.MockLeg{{From: "台北101", To: "鼎泰豐", Duration: "13 小時"}},
		[]ports.PlaceHours{
			{Name: "台北101", WeekdayLines: openAllWeek},
			{Name: "鼎泰豐", WeekdayLines: openAllWeek},
		},
	)
	h := &ValidateHandler{Travel: provider, Places: provider, Config: testCheckConfig()}

	req := httptest.NewRequest(http.MethodPost, "/itinerary/validate", strings.NewReader(validateBody))
	rec := httptest.NewRecorder()
	h.Validate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("infeasibility is not an http error, got %d", rec.Code)
	}

	var res dto.ValidationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Success {
		t.Fatal("expected a failed validation")
	}
	if !strings.Contains(res.Message, "720-minute ceiling") {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func newSequenceHandler(provider *maps.MockProvider) *SequenceHandler {
	return &SequenceHandler{
		Travel:          provider,
		Places:          provider,
		Check:           testCheckConfig(),
		DefaultMode:     "driving",
		DefaultDayStart: 540,
		DefaultDayEnd:   1260,
	}
}

func TestSequenceHandlerOrdersStops(t *testing.T) {
	provider := testProvider()
	h := newSequenceHandler(provider)

	body := `{
	  "date": "2025-06-07",
	  "stops": [
	    {"name": "台北101", "location": {"lat": 25.033, "lng": 121.564}, "visit_minutes": 90, "opening_hours": []},
	    {"name": "鼎泰豐", "location": {"lat": 25.033, "lng": 121.530}, "visit_minutes": 60, "opening_hours": []}
	  ]
	}`
	req := httptest.NewRequest(http.MethodPost, "/itinerary/sequence", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Sequence(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var res dto.SequenceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !res.Feasible {
		t.Fatalf("expected a feasible order, got problem stop %q", res.ProblemStop)
	}
	if len(res.Visits) != 2 {
		t.Fatalf("expected 2 visits, got %d", len(res.Visits))
	}
	if res.TravelMinutes != 20 {
		t.Fatalf("expected 20 travel minutes, got %d", res.TravelMinutes)
	}
}

func TestSequenceHandlerRejectsBadDate(t *testing.T) {
	h := newSequenceHandler(testProvider())

	body := `{"date": "07/06/2025", "stops": [{"name": "台北101", "location": {"lat": 0, "lng": 0}, "visit_minutes": 60, "opening_hours": []}]}`
	req := httptest.NewRequest(http.MethodPost, "/itinerary/sequence", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Sequence(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSequenceHandlerRejectsEmptyStops(t *testing.T) {
	h := newSequenceHandler(testProvider())

	body := `{"date": "2025-06-07", "stops": []}`
	req := httptest.NewRequest(http.MethodPost, "/itinerary/sequence", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Sequence(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
