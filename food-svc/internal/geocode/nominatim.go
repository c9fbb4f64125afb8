package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"foodhub/food-svc/internal/domain"
	"foodhub/food-svc/internal/service"
)

var _ service.Geocoder = (*Client)(nil)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls a Nominatim-compatible search endpoint.
type Client struct {
	baseURL string
	apiKey  string
	client  HTTPClient
}

func NewClient(baseURL, apiKey string, client HTTPClient) *Client {
	return &Client{baseURL: baseURL, apiKey: apiKey, client: client}
}

type place struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func (c *Client) Autocomplete(ctx context.Context, query, lang string) ([]domain.PlaceSuggestion, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "5")
	params.Set("accept-language", lang)
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "foodhub/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	suggestions := make([]domain.PlaceSuggestion, 0, len(places))
	for _, p := range places {
		lat, errLat := strconv.ParseFloat(p.Lat, 64)
		lng, errLng := strconv.ParseFloat(p.Lon, 64)
		if errLat != nil || errLng != nil {
			continue
		}
		suggestions = append(suggestions, domain.PlaceSuggestion{DisplayName: p.DisplayName, Latitude: lat, Longitude: lng})
	}
	return suggestions, nil
}
