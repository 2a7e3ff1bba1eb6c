package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(ctx context.Context, connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);`,
	`ALTER TABLE sessions ADD COLUMN IF NOT EXISTS user_agent TEXT NOT NULL DEFAULT '';`,
	`ALTER TABLE sessions ADD COLUMN IF NOT EXISTS ip TEXT NOT NULL DEFAULT '';`,
	`CREATE TABLE IF NOT EXISTS weight_events (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		value DOUBLE PRECISION NOT NULL,
		unit TEXT NOT NULL CHECK(unit IN ('kg','lb')),
		created_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_weight_events_user_created ON weight_events(user_id, created_at);`,
	`CREATE TABLE IF NOT EXISTS goals (
		user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		target_value DOUBLE PRECISION NOT NULL,
		unit TEXT NOT NULL CHECK(unit IN ('kg','lb')),
		updated_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS calorie_entries (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		day TEXT NOT NULL,
		kind TEXT NOT NULL CHECK(kind IN ('meal','exercise')),
		name TEXT NOT NULL,
		calories INTEGER NOT NULL CHECK(calories >= 0),
		protein INTEGER NOT NULL DEFAULT 0,
		carbs INTEGER NOT NULL DEFAULT 0,
		fat INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_calorie_entries_user_day ON calorie_entries(user_id, day);`,
	`CREATE TABLE IF NOT EXISTS calorie_goals (
		user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		daily_kcal INTEGER NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`,
}

func (d *DB) migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i, err)
		}
	}
	log.WithField("steps", len(migrations)).Debug("postgres migrations applied")
	return nil
}
