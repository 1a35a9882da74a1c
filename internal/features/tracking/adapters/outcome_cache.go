package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/augmentac/ff2api-external-integration-tool/internal/core/cache"
	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/domain"
)

// RedisOutcomeCache implements ports.OutcomeCache on top of the cache port.
// Successful outcomes are cached per carrier and PRO number so repeated
// lookups within the TTL skip the scrape (and the carrier's bot defenses)
// entirely.
type RedisOutcomeCache struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisOutcomeCache creates a RedisOutcomeCache with the given TTL.
func NewRedisOutcomeCache(c cache.Cache, ttl time.Duration) *RedisOutcomeCache {
	return &RedisOutcomeCache{
		cache: c,
		ttl:   ttl,
	}
}

func outcomeKey(carrier, proNumber string) string {
	return fmt.Sprintf("tracking_outcome:%s:%s", carrier, proNumber)
}

// Get retrieves a cached outcome, or nil when none is stored.
func (r *RedisOutcomeCache) Get(ctx context.Context, carrier, proNumber string) (*domain.TrackingOutcome, error) {
	data, err := r.cache.Get(ctx, outcomeKey(carrier, proNumber))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get outcome from cache: %w", err)
	}

	var outcome domain.TrackingOutcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached outcome: %w", err)
	}
	return &outcome, nil
}

// Save stores the outcome for the configured TTL.
func (r *RedisOutcomeCache) Save(ctx context.Context, outcome *domain.TrackingOutcome) error {
	data, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}

	if err := r.cache.Set(ctx, outcomeKey(outcome.Carrier, outcome.ProNumber), data, r.ttl); err != nil {
		return fmt.Errorf("failed to save outcome to cache: %w", err)
	}
	return nil
}
