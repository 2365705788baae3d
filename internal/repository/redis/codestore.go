// Package redis implements short-lived key/value stores on Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/prjrating/sellerrating/pkg/errors"
)

// CodeKeyPrefix namespaces every code key in the shared Redis instance.
const CodeKeyPrefix = "ratingsystem:code:"

// CodeStore implements repository.CodeStore using Redis key expiry.
type CodeStore struct {
	client *redis.Client
}

// NewCodeStore creates a new Redis-backed code store.
func NewCodeStore(client *redis.Client) *CodeStore {
	return &CodeStore{client: client}
}

// Set stores value under key for ttl, replacing any previous value.
func (s *CodeStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, CodeKeyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set code: %w", err)
	}
	return nil
}

// Get returns the value stored under key, or apperrors.ErrNotFound when the
// key is absent or has expired.
func (s *CodeStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, CodeKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("redis get code: %w", err)
	}
	return val, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *CodeStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, CodeKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete code: %w", err)
	}
	return nil
}

// Exists reports whether key is present and unexpired.
func (s *CodeStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, CodeKeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists code: %w", err)
	}
	return n > 0, nil
}
