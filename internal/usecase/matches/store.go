// Package matches owns the durable set of trials the user has accepted.
package matches

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/trialmatch/backend/internal/domain"
	"github.com/trialmatch/backend/internal/notify"
	"github.com/trialmatch/backend/internal/repository"
)

// DefaultPollInterval is how often the store checks the durable version
// signal for writes made by another process.
const DefaultPollInterval = 500 * time.Millisecond

// Store keeps the in-memory match collection in sync with its durable
// slot and notifies subscribers after every change. Mutations persist
// the full collection before reporting success. Concurrent writers are
// reconciled last-write-wins at the storage layer.
type Store struct {
	repo repository.MatchRepository
	bus  *notify.Bus

	mu      sync.RWMutex
	trials  []domain.Trial
	version int64
}

// NewStore rehydrates the collection from durable storage. A corrupt
// slot is treated as empty rather than a fatal fault.
func NewStore(ctx context.Context, repo repository.MatchRepository, bus *notify.Bus) *Store {
	s := &Store{repo: repo, bus: bus}

	trials, err := repo.Load(ctx)
	if err != nil {
		log.Printf("matches: failed to rehydrate, starting empty: %v", err)
		trials = []domain.Trial{}
	}
	version, err := repo.Version(ctx)
	if err != nil {
		log.Printf("matches: failed to read version: %v", err)
	}

	s.trials = trials
	s.version = version
	return s
}

// Add appends the trial unless one with the same id is already stored;
// first write wins for an id.
func (s *Store) Add(ctx context.Context, trial domain.Trial) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if domain.ContainsTrial(s.trials, trial.ID) {
		return nil
	}

	updated := append(copyTrials(s.trials), trial)
	if err := s.persist(ctx, updated); err != nil {
		return fmt.Errorf("failed to add match: %w", err)
	}
	s.publish(notify.EventAdded)
	return nil
}

// Remove drops the trial with the given id. Unknown ids are a no-op.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !domain.ContainsTrial(s.trials, id) {
		return nil
	}

	updated := make([]domain.Trial, 0, len(s.trials)-1)
	for _, t := range s.trials {
		if t.ID != id {
			updated = append(updated, t)
		}
	}
	if err := s.persist(ctx, updated); err != nil {
		return fmt.Errorf("failed to remove match: %w", err)
	}
	s.publish(notify.EventRemoved)
	return nil
}

// Clear empties the collection.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, []domain.Trial{}); err != nil {
		return fmt.Errorf("failed to clear matches: %w", err)
	}
	s.publish(notify.EventCleared)
	return nil
}

// List returns a copy of the current collection.
func (s *Store) List() []domain.Trial {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyTrials(s.trials)
}

// Subscribe registers a change handler and returns its unsubscribe func.
func (s *Store) Subscribe(h notify.Handler) func() {
	return s.bus.Subscribe(h)
}

// persist writes the collection durably, then swaps it in. Callers hold
// the write lock.
func (s *Store) persist(ctx context.Context, trials []domain.Trial) error {
	version, err := s.repo.Store(ctx, trials)
	if err != nil {
		return err
	}
	if err := s.repo.SetForceRefresh(ctx); err != nil {
		log.Printf("matches: failed to set refresh flag: %v", err)
	}
	s.trials = trials
	s.version = version
	return nil
}

// publish emits the event with a snapshot of the collection. Callers
// hold the lock.
func (s *Store) publish(typ notify.EventType) {
	s.bus.Publish(notify.Event{Type: typ, Matches: copyTrials(s.trials)})
}

// StartPolling watches the durable version signal until ctx is done and
// reloads when another writer changed the slot. This is the cross-process
// half of the notification protocol; in-process subscribers already hear
// changes through the bus.
func (s *Store) StartPolling(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.checkStale(ctx)
			}
		}
	}()
}

func (s *Store) checkStale(ctx context.Context) {
	if _, err := s.repo.ConsumeForceRefresh(ctx); err != nil {
		log.Printf("matches: failed to consume refresh flag: %v", err)
	}

	version, err := s.repo.Version(ctx)
	if err != nil {
		log.Printf("matches: failed to poll version: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if version == s.version {
		return
	}

	trials, err := s.repo.Load(ctx)
	if err != nil {
		log.Printf("matches: failed to reload after foreign write: %v", err)
		return
	}
	s.trials = trials
	s.version = version
	s.publish(notify.EventRefresh)
}

func copyTrials(trials []domain.Trial) []domain.Trial {
	out := make([]domain.Trial, len(trials))
	copy(out, trials)
	return out
}
