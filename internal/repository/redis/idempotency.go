package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const eventKeyPrefix = "ratingsystem:event:"

// IdempotencyStore implements kafka.IdempotencyStore on Redis. Processed
// event IDs expire after ttl.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates a store that remembers event IDs for ttl.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Contains reports whether eventID was already recorded.
func (s *IdempotencyStore) Contains(ctx context.Context, eventID string) (bool, error) {
	n, err := s.client.Exists(ctx, eventKeyPrefix+eventID).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists event: %w", err)
	}
	return n > 0, nil
}

// Add records eventID. An ID that is already present keeps its original
// expiry.
func (s *IdempotencyStore) Add(ctx context.Context, eventID string) error {
	if err := s.client.SetNX(ctx, eventKeyPrefix+eventID, 1, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis add event: %w", err)
	}
	return nil
}
