package trialsearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/trialmatch/backend/internal/domain"
)

func TestSearch(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/trials/search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotQuery = map[string]string{
			"condition": r.URL.Query().Get("condition"),
			"location":  r.URL.Query().Get("location"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "NCT001", "title": "Diabetes Study", "matchScore": 0.99},
			{"title": "No id, must be dropped"},
			{"id": "NCT002"}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	trials, err := client.Search(context.Background(), "diabetes", "Boston")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if gotQuery["condition"] != "diabetes" || gotQuery["location"] != "Boston" {
		t.Errorf("query = %v", gotQuery)
	}
	if len(trials) != 2 {
		t.Fatalf("Search() = %d trials, want 2 (id-less record dropped)", len(trials))
	}
	if trials[0].ID != "NCT001" || trials[1].ID != "NCT002" {
		t.Errorf("trial ids = %s, %s", trials[0].ID, trials[1].ID)
	}
	// Scores and distances from the server are discarded.
	if trials[0].MatchScore != nil || trials[0].Distance != nil {
		t.Errorf("server score/distance leaked through: %v %v", trials[0].MatchScore, trials[0].Distance)
	}
	if trials[1].Conditions == nil || trials[1].Locations == nil {
		t.Error("nil slices not normalized on ingress")
	}
}

func TestSearchOmitsEmptyLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("location") {
			t.Error("empty location must not be sent")
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	trials, err := NewClient(server.URL).Search(context.Background(), "asthma", "")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(trials) != 0 {
		t.Fatalf("Search() = %d trials, want 0", len(trials))
	}
}

func TestSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	if _, err := NewClient(server.URL).Search(context.Background(), "diabetes", ""); !errors.Is(err, domain.ErrSearchUnavailable) {
		t.Fatalf("Search() err = %v, want ErrSearchUnavailable", err)
	}
}

func TestSearchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	if _, err := NewClient(server.URL).Search(context.Background(), "diabetes", ""); !errors.Is(err, domain.ErrSearchUnavailable) {
		t.Fatalf("Search() against closed server: err = %v, want ErrSearchUnavailable", err)
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer server.Close()

	if err := NewClient(server.URL).Health(context.Background()); err != nil {
		t.Fatalf("Health() error = %v", err)
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	if err := NewClient(down.URL).Health(context.Background()); !errors.Is(err, domain.ErrSearchUnavailable) {
		t.Fatalf("Health() err = %v, want ErrSearchUnavailable", err)
	}
}
