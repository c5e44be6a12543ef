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

const (
	keyMatches = "trialmatch:matches"
	keyVersion = "trialmatch:matches:version"
	keyRefresh = "trialmatch:matches:refresh"
)

type matchRepository struct {
	client *goredis.Client
}

func NewMatchRepository(client *goredis.Client) repository.MatchRepository {
	return &matchRepository{client: client}
}

func (r *matchRepository) Load(ctx context.Context) ([]domain.Trial, error) {
	raw, err := r.client.Get(ctx, keyMatches).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
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

	// SET + INCR in one round trip so the version signal never lags the
	// data it announces.
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, keyMatches, raw, 0)
	incr := pipe.Incr(ctx, keyVersion)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to store matches slot: %w", err)
	}
	return incr.Val(), nil
}

func (r *matchRepository) Version(ctx context.Context) (int64, error) {
	version, err := r.client.Get(ctx, keyVersion).Int64()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read matches version: %w", err)
	}
	return version, nil
}

func (r *matchRepository) SetForceRefresh(ctx context.Context) error {
	if err := r.client.Set(ctx, keyRefresh, "1", 0).Err(); err != nil {
		return fmt.Errorf("failed to set refresh flag: %w", err)
	}
	return nil
}

func (r *matchRepository) ConsumeForceRefresh(ctx context.Context) (bool, error) {
	_, err := r.client.GetDel(ctx, keyRefresh).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to consume refresh flag: %w", err)
	}
	return true, nil
}
