// Package swipe tracks a user's pass through a ranked deck of trials.
package swipe

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/trialmatch/backend/internal/domain"
	"github.com/trialmatch/backend/internal/usecase/matches"
	"github.com/trialmatch/backend/internal/usecase/matching"
	"github.com/trialmatch/backend/internal/usecase/profile"
)

// TrialSearcher fetches candidate trials from the remote search endpoint.
type TrialSearcher interface {
	Search(ctx context.Context, condition, location string) ([]domain.Trial, error)
}

// Summary is the session's running statistics. Done is reached once the
// whole deck was decided; the session never loops.
type Summary struct {
	Viewed   int  `json:"viewed"`
	Matched  int  `json:"matched"`
	Rejected int  `json:"rejected"`
	Total    int  `json:"total"`
	Done     bool `json:"done"`
}

// Session consumes a ranked trial sequence. The deck is immutable once
// loaded; only the cursor and the decision lists move. Rejected trials
// live for the session only and are never persisted.
type Session struct {
	ID string

	mu           sync.Mutex
	trials       []domain.Trial
	currentIndex int
	matched      []domain.Trial
	rejected     []domain.Trial
}

// Current returns the trial awaiting a decision, nil once the deck is
// exhausted, along with the session summary.
func (s *Session) Current() (*domain.Trial, Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentIndex >= len(s.trials) {
		return nil, s.summary()
	}
	trial := s.trials[s.currentIndex]
	return &trial, s.summary()
}

func (s *Session) summary() Summary {
	return Summary{
		Viewed:   s.currentIndex,
		Matched:  len(s.matched),
		Rejected: len(s.rejected),
		Total:    len(s.trials),
		Done:     s.currentIndex >= len(s.trials),
	}
}

// Manager owns the open swipe sessions and routes accepted trials into
// the match store.
type Manager struct {
	store    *matches.Store
	profiles *profile.ProfileUseCase
	searcher TrialSearcher
	ranker   *matching.Ranker

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(
	store *matches.Store,
	profiles *profile.ProfileUseCase,
	searcher TrialSearcher,
	ranker *matching.Ranker,
) *Manager {
	return &Manager{
		store:    store,
		profiles: profiles,
		searcher: searcher,
		ranker:   ranker,
		sessions: make(map[string]*Session),
	}
}

// Start loads the profile, fetches candidates for its first condition
// and opens a session over the ranked deck. An empty deck is a valid
// "no matches" session, not an error.
func (m *Manager) Start(ctx context.Context) (*Session, error) {
	p, err := m.profiles.EnsureMatchable(ctx)
	if err != nil {
		return nil, err
	}

	city, _ := p.CityState()
	trials, err := m.searcher.Search(ctx, p.MedicalConditions[0], city)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trials: %w", err)
	}

	ranked, err := m.ranker.Rank(ctx, trials, p)
	if err != nil {
		return nil, err
	}
	return m.Open(ranked), nil
}

// Open creates a session over an already-ranked deck.
func (m *Manager) Open(trials []domain.Trial) *Session {
	session := &Session{
		ID:     uuid.NewString(),
		trials: trials,
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	return session
}

// Get returns an open session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Decide applies the user's verdict on the current card and advances the
// cursor. Accepting forwards the trial to the match store before the
// session advances. Deciding on a finished session is a no-op.
func (m *Manager) Decide(ctx context.Context, sessionID string, accept bool) (Summary, error) {
	session, err := m.Get(sessionID)
	if err != nil {
		return Summary{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.currentIndex >= len(session.trials) {
		return session.summary(), nil
	}

	trial := session.trials[session.currentIndex]
	if accept {
		if err := m.store.Add(ctx, trial); err != nil {
			return session.summary(), fmt.Errorf("failed to record match: %w", err)
		}
		session.matched = append(session.matched, trial)
	} else {
		session.rejected = append(session.rejected, trial)
	}
	session.currentIndex++

	return session.summary(), nil
}
