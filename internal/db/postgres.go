package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS kv_blobs (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresBackend stores the blob in a PostgreSQL table
type PostgresBackend struct {
	pool *pgxpool.Pool
	key  string
}

// ConnectPostgres establishes a connection pool and ensures the blob table exists
func ConnectPostgres(ctx context.Context, databaseURL, key string) (*PostgresBackend, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required for the postgres store")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create kv_blobs table: %w", err)
	}

	return &PostgresBackend{pool: pool, key: key}, nil
}

// Load retrieves the blob, or nil if it has never been saved
func (b *PostgresBackend) Load(ctx context.Context) ([]byte, error) {
	var value []byte
	err := b.pool.QueryRow(ctx,
		`SELECT value FROM kv_blobs WHERE key = $1`,
		b.key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load blob %s: %w", b.key, err)
	}
	return value, nil
}

// Save upserts the blob
func (b *PostgresBackend) Save(ctx context.Context, blob []byte) error {
	_, err := b.pool.Exec(ctx,
		`INSERT INTO kv_blobs (key, value)
		 VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
		b.key, blob,
	)
	if err != nil {
		return fmt.Errorf("failed to save blob %s: %w", b.key, err)
	}
	return nil
}

// Close closes the connection pool
func (b *PostgresBackend) Close() error {
	if b.pool != nil {
		b.pool.Close()
	}
	return nil
}
