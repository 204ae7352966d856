// Package postgres provides a pgx-backed KV. Each collection is one row in
// the collections table, holding the whole JSON document.
//
// The schema is created by Open when missing; db/migrations carries the same
// statement for deployments that manage schema separately.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
create table if not exists collections (
    key        text primary key,
    value      jsonb not null,
    updated_at timestamptz not null default now()
)`

// Store holds a pgx connection pool. All methods are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string and ensures the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// Get returns the JSON document for key, or nil when no row exists.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `select value from collections where key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set upserts the whole document for key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.pool.Exec(ctx, `
        insert into collections (key, value, updated_at)
        values ($1, $2, now())
        on conflict (key) do update set value = excluded.value, updated_at = excluded.updated_at
    `, key, value)
	return err
}

// truncate removes every collection; used by tests.
func (s *Store) truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `truncate table collections`)
	return err
}
