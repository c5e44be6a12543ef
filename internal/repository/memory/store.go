// Package memory is the storage backend used when no redis or postgres
// is configured, and the fixture store for tests. Snapshots are kept as
// encoded JSON so persistence semantics match the durable backends.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/trialmatch/backend/internal/domain"
	"github.com/trialmatch/backend/internal/repository"
)

// Store holds all slots behind one lock, mirroring the single-writer
// read-modify-write model of the durable backends.
type Store struct {
	mu      sync.RWMutex
	profile []byte
	matches []byte
	version int64
	refresh bool
}

func NewStore() *Store {
	return &Store{}
}

// ProfileRepository returns the profile slot view of the store.
func (s *Store) ProfileRepository() repository.ProfileRepository {
	return (*profileSlot)(s)
}

// MatchRepository returns the matches slot view of the store.
func (s *Store) MatchRepository() repository.MatchRepository {
	return (*matchSlot)(s)
}

type profileSlot Store

func (s *profileSlot) Load(_ context.Context) (*domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	var profile domain.UserProfile
	if err := json.Unmarshal(s.profile, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile slot: %w", err)
	}
	return &profile, nil
}

func (s *profileSlot) Save(_ context.Context, profile *domain.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	s.mu.Lock()
	s.profile = raw
	s.mu.Unlock()
	return nil
}

type matchSlot Store

func (s *matchSlot) Load(_ context.Context) ([]domain.Trial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.matches == nil {
		return []domain.Trial{}, nil
	}
	var trials []domain.Trial
	if err := json.Unmarshal(s.matches, &trials); err != nil {
		return nil, fmt.Errorf("failed to decode matches slot: %w", err)
	}
	return trials, nil
}

func (s *matchSlot) Store(_ context.Context, trials []domain.Trial) (int64, error) {
	raw, err := json.Marshal(trials)
	if err != nil {
		return 0, fmt.Errorf("failed to encode matches: %w", err)
	}

	s.mu.Lock()
	s.matches = raw
	s.version++
	version := s.version
	s.mu.Unlock()
	return version, nil
}

func (s *matchSlot) Version(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version, nil
}

func (s *matchSlot) SetForceRefresh(_ context.Context) error {
	s.mu.Lock()
	s.refresh = true
	s.mu.Unlock()
	return nil
}

func (s *matchSlot) ConsumeForceRefresh(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.refresh
	s.refresh = false
	return set, nil
}
