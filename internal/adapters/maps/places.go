package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"trip-validation-service/internal/ports"
)

type findPlaceResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Candidates   []struct {
		PlaceID string `json:"place_id"`
	} `json:"candidates"`
}

type placeDetailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Name         string `json:"name"`
		OpeningHours struct {
			WeekdayText []string `json:"weekday_text"`
		} `json:"opening_hours"`
	} `json:"result"`
}

// fetchOpeningHours resolves a free-text place name to its weekday lines via
// Find Place followed by Place Details. A place with no published hours
// yields an empty line set, which callers treat as always open.
func (g *GoogleProvider) fetchOpeningHours(ctx context.Context, name string) (ports.PlaceHours, error) {
	placeID, err := g.findPlaceID(ctx, name)
	if err != nil {
		return ports.PlaceHours{}, err
	}

	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", "name,opening_hours")
	q.Set("language", g.language)
	q.Set("key", g.apiKey)

	endpoint := g.baseURL + "/place/details/json?" + q.Encode()

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		return g.newRequest(ctx, endpoint)
	})
	if err != nil {
		return ports.PlaceHours{}, fmt.Errorf("place details request: %w", err)
	}
	defer resp.Body.Close()

	var dr placeDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.PlaceHours{}, fmt.Errorf("decode place details response: %w", err)
	}

	if dr.Status != "OK" {
		if dr.ErrorMessage != "" {
			return ports.PlaceHours{}, fmt.Errorf("place details status %s: %s", dr.Status, dr.ErrorMessage)
		}
		return ports.PlaceHours{}, fmt.Errorf("place details status %s", dr.Status)
	}

	return ports.PlaceHours{
		Name:         name,
		WeekdayLines: dr.Result.OpeningHours.WeekdayText,
	}, nil
}

func (g *GoogleProvider) findPlaceID(ctx context.Context, name string) (string, error) {
	q := url.Values{}
	q.Set("input", name)
	q.Set("inputtype", "textquery")
	q.Set("fields", "place_id")
	q.Set("language", g.language)
	q.Set("key", g.apiKey)

	endpoint := g.baseURL + "/place/findplacefromtext/json?" + q.Encode()

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		return g.newRequest(ctx, endpoint)
	})
	if err != nil {
		return "", fmt.Errorf("find place request: %w", err)
	}
	defer resp.Body.Close()

	var fr findPlaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return "", fmt.Errorf("decode find place response: %w", err)
	}

	if fr.Status != "OK" || len(fr.Candidates) == 0 {
		if fr.ErrorMessage != "" {
			return "", fmt.Errorf("find place status %s: %s", fr.Status, fr.ErrorMessage)
		}
		return "", fmt.Errorf("no place found for %q (status %s)", name, fr.Status)
	}

	return fr.Candidates[0].PlaceID, nil
}
