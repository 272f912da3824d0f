package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		Legs []struct {
			Duration struct {
				Text  string `json:"text"`
				Value int    `json:"value"`
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// fetchDirections returns the localized duration text of the first route leg
// between two named places.
func (g *GoogleProvider) fetchDirections(
	ctx context.Context,
	origin string,
	destination string,
	mode string,
) (string, error) {
	q := url.Values{}
	q.Set("origin", origin)
	q.Set("destination", destination)
	q.Set("mode", mode)
	q.Set("language", g.language)
	q.Set("key", g.apiKey)

	endpoint := g.baseURL + "/directions/json?" + q.Encode()

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		return g.newRequest(ctx, endpoint)
	})
	if err != nil {
		return "", fmt.Errorf("directions request: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return "", fmt.Errorf("decode directions response: %w", err)
	}

	if dr.Status != "OK" {
		if dr.ErrorMessage != "" {
			return "", fmt.Errorf("directions status %s: %s", dr.Status, dr.ErrorMessage)
		}
		return "", fmt.Errorf("directions status %s", dr.Status)
	}
	if len(dr.Routes) == 0 || len(dr.Routes[0].Legs) == 0 {
		return "", fmt.Errorf("directions returned no route legs")
	}

	return dr.Routes[0].Legs[0].Duration.Text, nil
}
