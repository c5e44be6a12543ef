package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/trialmatch/backend/internal/domain"
	"github.com/trialmatch/backend/internal/repository"
)

const slotProfile = "profile"

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Load(ctx context.Context) (*domain.UserProfile, error) {
	var raw []byte
	query := `SELECT value FROM slots WHERE key = $1`
	if err := r.db.GetContext(ctx, &raw, query, slotProfile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

	query := `
		INSERT INTO slots (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, version = slots.version + 1, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, slotProfile, raw); err != nil {
		return fmt.Errorf("failed to save profile slot: %w", err)
	}
	return nil
}
