// Package trialsearch consumes the remote trial-search endpoint.
package trialsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/trialmatch/backend/internal/domain"
)

// Client fetches candidate trials. The search is a single atomic fetch;
// there is no pagination handling.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Search fetches trials for a condition, optionally scoped to a
// location. Responses are validated on ingress: records without an id
// are dropped rather than propagated. An empty result is not an error.
func (c *Client) Search(ctx context.Context, condition, location string) ([]domain.Trial, error) {
	endpoint := fmt.Sprintf("%s/api/trials/search", c.baseURL)

	params := url.Values{}
	params.Set("condition", condition)
	if location != "" {
		params.Set("location", location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search returned status %d", domain.ErrSearchUnavailable, resp.StatusCode)
	}

	var trials []domain.Trial
	if err := json.NewDecoder(resp.Body).Decode(&trials); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	valid := make([]domain.Trial, 0, len(trials))
	for _, t := range trials {
		if t.ID == "" {
			continue
		}
		if t.Conditions == nil {
			t.Conditions = []string{}
		}
		if t.Locations == nil {
			t.Locations = []domain.TrialLocation{}
		}
		// Server-attached demo scores are not trusted; the ranker owns
		// score and distance.
		t.MatchScore = nil
		t.Distance = nil
		valid = append(valid, t)
	}
	return valid, nil
}

// Health reports whether the search backend is reachable. It gates a
// connectivity indicator only, never functionality.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health returned status %d", domain.ErrSearchUnavailable, resp.StatusCode)
	}
	return nil
}
