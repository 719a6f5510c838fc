package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "clever_tips:published:"

// RedisKeyStore shares published keys between processes through Redis
type RedisKeyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisKeyStore creates a Redis backed key store
func NewRedisKeyStore(client *redis.Client, ttl time.Duration) *RedisKeyStore {
	return &RedisKeyStore{client: client, ttl: ttl}
}

// Seen reports whether key exists in Redis
func (s *RedisKeyStore) Seen(ctx context.Context, key string) (bool, error) {
	exists, err := s.client.Exists(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check published key: %w", err)
	}
	return exists > 0, nil
}

// Mark sets key with the store TTL. An existing key keeps its original expiry.
func (s *RedisKeyStore) Mark(ctx context.Context, key string) error {
	if err := s.client.SetNX(ctx, redisKeyPrefix+key, time.Now().Unix(), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set published key: %w", err)
	}
	return nil
}

// Clear removes a key
func (s *RedisKeyStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, redisKeyPrefix+key).Err()
}

// Close closes the Redis client
func (s *RedisKeyStore) Close() error {
	return s.client.Close()
}
