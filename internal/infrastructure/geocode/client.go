// Package geocode consumes the Google Maps geocoding API. Failures here
// degrade matching to the location-string heuristic; they never abort it.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/trialmatch/backend/internal/domain"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Result is a resolved address.
type Result struct {
	Lat              float64
	Lng              float64
	FormattedAddress string
}

// Client resolves free-text addresses to coordinates, caching results
// per address since trial sites repeat heavily across candidates.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	mu    sync.Mutex
	cache map[string]*Result
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: make(map[string]*Result),
	}
}

// NewClientWithBaseURL is for tests pointing at a fake endpoint.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves an address to coordinates.
func (c *Client) Geocode(ctx context.Context, address string) (*Result, error) {
	c.mu.Lock()
	if cached, ok := c.cache[address]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	params := url.Values{}
	params.Set("address", address)
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if decoded.Status != "OK" || len(decoded.Results) == 0 {
		return nil, fmt.Errorf("geocoding failed: %s", decoded.Status)
	}

	result := &Result{
		Lat:              decoded.Results[0].Geometry.Location.Lat,
		Lng:              decoded.Results[0].Geometry.Location.Lng,
		FormattedAddress: decoded.Results[0].FormattedAddress,
	}

	c.mu.Lock()
	c.cache[address] = result
	c.mu.Unlock()
	return result, nil
}

// Resolve implements the ranker's LocationResolver port.
func (c *Client) Resolve(ctx context.Context, address string) (*domain.Coordinates, error) {
	result, err := c.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}
	return &domain.Coordinates{Lat: result.Lat, Lng: result.Lng}, nil
}
