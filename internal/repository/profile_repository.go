package repository

import (
	"context"

	"github.com/trialmatch/backend/internal/domain"
)

// ProfileRepository persists the user profile as a single snapshot slot.
// There is no partial update and no delete; every save overwrites.
type ProfileRepository interface {
	// Load returns the stored profile or domain.ErrProfileNotFound.
	Load(ctx context.Context) (*domain.UserProfile, error)
	Save(ctx context.Context, profile *domain.UserProfile) error
}
