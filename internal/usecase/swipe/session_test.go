package swipe

import (
	"context"
	"errors"
	"testing"

	"github.com/trialmatch/backend/internal/domain"
	"github.com/trialmatch/backend/internal/notify"
	"github.com/trialmatch/backend/internal/repository/memory"
	"github.com/trialmatch/backend/internal/usecase/matches"
	"github.com/trialmatch/backend/internal/usecase/matching"
	"github.com/trialmatch/backend/internal/usecase/profile"
)

type fakeSearcher struct {
	trials []domain.Trial
	err    error

	gotCondition string
	gotLocation  string
}

func (f *fakeSearcher) Search(_ context.Context, condition, location string) ([]domain.Trial, error) {
	f.gotCondition = condition
	f.gotLocation = location
	return f.trials, f.err
}

func newFixture(t *testing.T, searcher TrialSearcher) (*Manager, *matches.Store, *profile.ProfileUseCase) {
	t.Helper()
	ctx := context.Background()

	backing := memory.NewStore()
	store := matches.NewStore(ctx, backing.MatchRepository(), notify.NewBus())
	profiles := profile.NewProfileUseCase(backing.ProfileRepository(), nil)
	ranker := matching.NewRanker(nil, matching.DefaultOptions())

	return NewManager(store, profiles, searcher, ranker), store, profiles
}

func completeProfile() *domain.UserProfile {
	return &domain.UserProfile{
		FirstName:         "Jamie",
		LastName:          "Rivera",
		Age:               45,
		Gender:            domain.GenderFemale,
		Location:          "Boston, MA",
		MedicalConditions: []string{"Diabetes"},
		MaxTravelDistance: 50,
		ContactEmail:      "jamie@example.com",
	}
}

func deck(ids ...string) []domain.Trial {
	out := make([]domain.Trial, len(ids))
	for i, id := range ids {
		out[i] = domain.Trial{
			ID:         id,
			Conditions: []string{"Diabetes"},
			Gender:     "All",
			AgeRange:   domain.AgeRange{Min: "18", Max: "65"},
		}
	}
	return out
}

func TestDecideRoutesAccepts(t *testing.T) {
	manager, store, _ := newFixture(t, nil)
	ctx := context.Background()

	session := manager.Open(deck("NCT001", "NCT002", "NCT003"))

	summary, err := manager.Decide(ctx, session.ID, true)
	if err != nil {
		t.Fatalf("Decide(accept) error = %v", err)
	}
	if summary.Matched != 1 || summary.Viewed != 1 || summary.Done {
		t.Fatalf("summary after accept = %+v", summary)
	}

	summary, err = manager.Decide(ctx, session.ID, false)
	if err != nil {
		t.Fatalf("Decide(reject) error = %v", err)
	}
	if summary.Rejected != 1 || summary.Viewed != 2 {
		t.Fatalf("summary after reject = %+v", summary)
	}

	// Only the accepted trial reaches the store.
	stored := store.List()
	if len(stored) != 1 || stored[0].ID != "NCT001" {
		t.Fatalf("store.List() = %v, want only the accepted trial", stored)
	}
}

func TestDecideTerminalIsNoOp(t *testing.T) {
	manager, store, _ := newFixture(t, nil)
	ctx := context.Background()

	session := manager.Open(deck("NCT001"))
	if _, err := manager.Decide(ctx, session.ID, false); err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	// Deck exhausted: further decisions change nothing.
	summary, err := manager.Decide(ctx, session.ID, true)
	if err != nil {
		t.Fatalf("terminal Decide() error = %v", err)
	}
	if !summary.Done || summary.Matched != 0 || summary.Viewed != 1 {
		t.Fatalf("terminal summary = %+v", summary)
	}
	if len(store.List()) != 0 {
		t.Fatal("terminal accept must not reach the store")
	}

	current, _ := session.Current()
	if current != nil {
		t.Fatalf("Current() on finished session = %v, want nil", current)
	}
}

func TestDecideUnknownSession(t *testing.T) {
	manager, _, _ := newFixture(t, nil)

	if _, err := manager.Decide(context.Background(), "no-such-id", true); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("Decide() err = %v, want ErrSessionNotFound", err)
	}
	if _, err := manager.Get("no-such-id"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("Get() err = %v, want ErrSessionNotFound", err)
	}
}

func TestStartRequiresCompleteProfile(t *testing.T) {
	manager, _, _ := newFixture(t, &fakeSearcher{})

	if _, err := manager.Start(context.Background()); !errors.Is(err, domain.ErrProfileIncomplete) {
		t.Fatalf("Start() with empty profile: err = %v, want ErrProfileIncomplete", err)
	}
}

func TestStartRanksSearchResults(t *testing.T) {
	searcher := &fakeSearcher{trials: append(deck("NCT001", "NCT002"), domain.Trial{
		ID:         "NCT-IRRELEVANT",
		Conditions: []string{"Psoriasis"},
		Gender:     "All",
		AgeRange:   domain.AgeRange{Min: "18", Max: "65"},
	})}
	manager, _, profiles := newFixture(t, searcher)
	ctx := context.Background()

	if _, err := profiles.Save(ctx, completeProfile()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	session, err := manager.Start(ctx)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if searcher.gotCondition != "Diabetes" || searcher.gotLocation != "Boston" {
		t.Errorf("Search called with (%q, %q), want (Diabetes, Boston)", searcher.gotCondition, searcher.gotLocation)
	}

	// The non-matching trial falls below the admission threshold.
	_, summary := session.Current()
	if summary.Total != 2 {
		t.Fatalf("deck size = %d, want 2", summary.Total)
	}

	found, err := manager.Get(session.ID)
	if err != nil || found != session {
		t.Fatalf("Get(%q) = %v, %v", session.ID, found, err)
	}
}

func TestStartSearchFailure(t *testing.T) {
	searcher := &fakeSearcher{err: domain.ErrSearchUnavailable}
	manager, _, profiles := newFixture(t, searcher)
	ctx := context.Background()

	if _, err := profiles.Save(ctx, completeProfile()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := manager.Start(ctx); !errors.Is(err, domain.ErrSearchUnavailable) {
		t.Fatalf("Start() err = %v, want wrapped ErrSearchUnavailable", err)
	}
}
