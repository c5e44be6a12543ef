package repository

import (
	"context"

	"github.com/trialmatch/backend/internal/domain"
)

// MatchRepository persists the matched-trials collection as a single
// snapshot slot plus a monotonically increasing version used as a
// staleness signal. Writes are whole-collection and last-write-wins;
// no merge logic lives here.
type MatchRepository interface {
	// Load returns the stored collection, empty when nothing was saved.
	Load(ctx context.Context) ([]domain.Trial, error)
	// Store replaces the collection and returns the new version.
	Store(ctx context.Context, trials []domain.Trial) (int64, error)
	// Version returns the current version, 0 before the first write.
	Version(ctx context.Context) (int64, error)
	// SetForceRefresh raises the ephemeral refresh flag for readers.
	SetForceRefresh(ctx context.Context) error
	// ConsumeForceRefresh reads and clears the refresh flag.
	ConsumeForceRefresh(ctx context.Context) (bool, error)
}
