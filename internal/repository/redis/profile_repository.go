package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/trialmatch/backend/internal/domain"
	"github.com/trialmatch/backend/internal/repository"
)

const keyProfile = "trialmatch:profile"

type profileRepository struct {
	client *goredis.Client
}

func NewProfileRepository(client *goredis.Client) repository.ProfileRepository {
	return &profileRepository{client: client}
}

func (r *profileRepository) Load(ctx context.Context) (*domain.UserProfile, error) {
	raw, err := r.client.Get(ctx, keyProfile).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile slot: %w", err)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile slot: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) Save(ctx context.Context, profile *domain.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := r.client.Set(ctx, keyProfile, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save profile slot: %w", err)
	}
	return nil
}
