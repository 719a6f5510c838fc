// Package store persists predictions and remembers which ones were published.
package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/yourusername/clever-tips/internal/config"
	"github.com/yourusername/clever-tips/internal/database"
)

// KeyStore remembers published prediction keys so a prediction is sent at most once
type KeyStore interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
	Close() error
}

// NewKeyStore builds the key store selected by dedup.backend. db is only
// required for the postgres backend.
func NewKeyStore(ctx context.Context, cfg *config.Config, db *database.DB) (KeyStore, error) {
	ttl := cfg.DedupTTL()

	switch cfg.Dedup.Backend {
	case "", "memory":
		return NewMemoryKeyStore(ttl), nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return NewRedisKeyStore(client, ttl), nil

	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("postgres key store requires a database connection")
		}
		return NewPostgresKeyStore(db, ttl), nil

	default:
		return nil, fmt.Errorf("unknown dedup backend: %s", cfg.Dedup.Backend)
	}
}
