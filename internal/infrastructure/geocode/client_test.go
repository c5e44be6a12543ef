package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestGeocode(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		if r.URL.Query().Get("address") != "Boston, MA" {
			t.Errorf("address = %q", r.URL.Query().Get("address"))
		}
		w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "Boston, MA, USA",
				"geometry": {"location": {"lat": 42.3601, "lng": -71.0589}}
			}]
		}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	result, err := client.Geocode(context.Background(), "Boston, MA")
	if err != nil {
		t.Fatalf("Geocode() error = %v", err)
	}
	if result.Lat != 42.3601 || result.Lng != -71.0589 {
		t.Errorf("Geocode() = %+v", result)
	}
	if result.FormattedAddress != "Boston, MA, USA" {
		t.Errorf("FormattedAddress = %q", result.FormattedAddress)
	}

	// Second lookup of the same address hits the cache.
	if _, err := client.Geocode(context.Background(), "Boston, MA"); err != nil {
		t.Fatalf("cached Geocode() error = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("upstream called %d times, want 1", calls.Load())
	}
}

func TestGeocodeZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	if _, err := client.Geocode(context.Background(), "Nowhere"); err == nil {
		t.Fatal("Geocode() with no results must fail")
	}
}

func TestResolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": "OK",
			"results": [{"geometry": {"location": {"lat": 1.5, "lng": 2.5}}}]
		}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	coords, err := client.Resolve(context.Background(), "General Hospital, Boston, MA, USA")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if coords.Lat != 1.5 || coords.Lng != 2.5 {
		t.Errorf("Resolve() = %+v", coords)
	}
}
