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

const (
	slotMatches = "matches"
	slotRefresh = "matches_refresh"
)

type matchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) repository.MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) Load(ctx context.Context) ([]domain.Trial, error) {
	var raw []byte
	query := `SELECT value FROM slots WHERE key = $1`
	if err := r.db.GetContext(ctx, &raw, query, slotMatches); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []domain.Trial{}, nil
		}
		return nil, fmt.Errorf("failed to load matches slot: %w", err)
	}

	var trials []domain.Trial
	if err := json.Unmarshal(raw, &trials); err != nil {
		return nil, fmt.Errorf("failed to decode matches slot: %w", err)
	}
	return trials, nil
}

func (r *matchRepository) Store(ctx context.Context, trials []domain.Trial) (int64, error) {
	raw, err := json.Marshal(trials)
	if err != nil {
		return 0, fmt.Errorf("failed to encode matches: %w", err)
	}

	var version int64
	query := `
		INSERT INTO slots (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, version = slots.version + 1, updated_at = now()
		RETURNING version
	`
	if err := r.db.QueryRowContext(ctx, query, slotMatches, raw).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to store matches slot: %w", err)
	}
	return version, nil
}

func (r *matchRepository) Version(ctx context.Context) (int64, error) {
	var version int64
	query := `SELECT version FROM slots WHERE key = $1`
	if err := r.db.GetContext(ctx, &version, query, slotMatches); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read matches version: %w", err)
	}
	return version, nil
}

func (r *matchRepository) SetForceRefresh(ctx context.Context) error {
	query := `
		INSERT INTO slots (key, value)
		VALUES ($1, 'true'::jsonb)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, version = slots.version + 1, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, slotRefresh); err != nil {
		return fmt.Errorf("failed to set refresh flag: %w", err)
	}
	return nil
}

func (r *matchRepository) ConsumeForceRefresh(ctx context.Context) (bool, error) {
	var key string
	query := `DELETE FROM slots WHERE key = $1 RETURNING key`
	if err := r.db.QueryRowContext(ctx, query, slotRefresh).Scan(&key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to consume refresh flag: %w", err)
	}
	return true, nil
}
