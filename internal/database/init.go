package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/clever-tips/internal/config"
)

// schemaStatements create the tables used by the prediction repository and
// the postgres key store. Each statement is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS predictions (
		id            UUID PRIMARY KEY,
		fixture_id    TEXT NOT NULL DEFAULT '',
		home          TEXT NOT NULL,
		away          TEXT NOT NULL,
		league        TEXT NOT NULL DEFAULT '',
		pick          TEXT NOT NULL,
		confidence    DOUBLE PRECISION NOT NULL,
		odds          DOUBLE PRECISION NOT NULL DEFAULT 0,
		all_odds      JSONB NOT NULL,
		probabilities JSONB NOT NULL,
		scores        JSONB NOT NULL,
		strategy      TEXT NOT NULL,
		scoreline     TEXT NOT NULL DEFAULT '',
		diversified   BOOLEAN NOT NULL DEFAULT FALSE,
		kickoff       TIMESTAMPTZ NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_kickoff ON predictions (kickoff)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_predictions_fixture_strategy
		ON predictions (fixture_id, home, away, kickoff, strategy)`,
	`CREATE TABLE IF NOT EXISTS published_keys (
		key        TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_published_keys_expires_at ON published_keys (expires_at)`,
}

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates missing tables and indexes
func (db *DB) EnsureSchema(ctx context.Context) error {
	return db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}
