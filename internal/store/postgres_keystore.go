package store

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/clever-tips/internal/database"
)

// PostgresKeyStore keeps published keys in the published_keys table
type PostgresKeyStore struct {
	db  *database.DB
	ttl time.Duration
	now func() time.Time
}

// NewPostgresKeyStore creates a PostgreSQL backed key store
func NewPostgresKeyStore(db *database.DB, ttl time.Duration) *PostgresKeyStore {
	return &PostgresKeyStore{db: db, ttl: ttl, now: time.Now}
}

// Seen reports whether an unexpired row exists for key
func (s *PostgresKeyStore) Seen(ctx context.Context, key string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM published_keys WHERE key = $1 AND expires_at > $2)`

	var exists bool
	if err := s.db.GetPool().QueryRow(ctx, query, key, s.now()).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check published key: %w", err)
	}
	return exists, nil
}

// Mark inserts key. An expired row for the same key is replaced.
func (s *PostgresKeyStore) Mark(ctx context.Context, key string) error {
	query := `
		INSERT INTO published_keys (key, created_at, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
			SET created_at = EXCLUDED.created_at, expires_at = EXCLUDED.expires_at
			WHERE published_keys.expires_at <= EXCLUDED.created_at
	`

	now := s.now()
	if _, err := s.db.GetPool().Exec(ctx, query, key, now, s.expiry(now)); err != nil {
		return fmt.Errorf("failed to mark published key: %w", err)
	}
	return nil
}

// Purge deletes expired keys and returns how many were removed
func (s *PostgresKeyStore) Purge(ctx context.Context) (int64, error) {
	tag, err := s.db.GetPool().Exec(ctx, `DELETE FROM published_keys WHERE expires_at <= $1`, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge published keys: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Close is a no-op; the pool is owned by the caller
func (s *PostgresKeyStore) Close() error {
	return nil
}

func (s *PostgresKeyStore) expiry(now time.Time) time.Time {
	if s.ttl <= 0 {
		return now.AddDate(100, 0, 0)
	}
	return now.Add(s.ttl)
}
