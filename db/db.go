package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq" // Import postgres driver
)

func Connect(dsn string, timeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify the connection with a timeout
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database handle after ping error", slog.Any("error", closeErr))
		}
		return nil, fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS brackets (
	id              TEXT PRIMARY KEY,
	name            TEXT        NOT NULL,
	bracket_type    TEXT        NOT NULL CHECK (bracket_type IN ('SingleElimination', 'DoubleElimination')),
	participant_ids TEXT[]      NOT NULL,
	concluded       BOOLEAN     NOT NULL DEFAULT FALSE,
	state           JSONB       NOT NULL,
	version         INTEGER     NOT NULL DEFAULT 1,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	archived_at     TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS brackets_unarchived_idx
	ON brackets (updated_at)
	WHERE concluded AND archived_at IS NULL;
`

// EnsureSchema creates the brackets table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
