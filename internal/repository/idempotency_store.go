package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "sale:idempotency:"

// IdempotencyStore remembers request keys so retried writes run once.
type IdempotencyStore interface {
	// Claim records key and reports false if it was already held.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release forgets key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}

type redisIdempotencyStore struct {
	client *redis.Client
}

// NewRedisIdempotencyStore returns a Redis-backed store.
func NewRedisIdempotencyStore(client *redis.Client) IdempotencyStore {
	return &redisIdempotencyStore{client: client}
}

func (s *redisIdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if s.client == nil {
		return false, errors.New("redis client not configured")
	}
	return s.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, ttl).Result()
}

func (s *redisIdempotencyStore) Release(ctx context.Context, key string) error {
	if s.client == nil {
		return errors.New("redis client not configured")
	}
	return s.client.Del(ctx, idempotencyKeyPrefix+key).Err()
}
