package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

type Execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		full_name TEXT NOT NULL DEFAULT '',
		roles TEXT[] NOT NULL DEFAULT ARRAY['viewer'],
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		failed_login_attempts INTEGER NOT NULL DEFAULT 0,
		last_login TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS reports (
		id BIGSERIAL PRIMARY KEY,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		brand_name TEXT NOT NULL,
		products JSONB NOT NULL,
		owner_id UUID REFERENCES users(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS reports_created_at_idx ON reports (created_at DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS reports_owner_idx ON reports (owner_id)`,
	`CREATE TABLE IF NOT EXISTS product_usage (
		id BIGSERIAL PRIMARY KEY,
		product_name TEXT NOT NULL UNIQUE,
		last_rate TEXT NOT NULL DEFAULT '',
		usage_count INTEGER NOT NULL DEFAULT 1 CHECK (usage_count >= 1),
		last_used TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS product_usage_rank_idx ON product_usage (usage_count DESC, last_used DESC, id)`,
}

// Migrate creates the tables the service needs.
func Migrate(ctx context.Context, db Execer) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}
	return nil
}
