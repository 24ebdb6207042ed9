package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS kv_entries (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`ALTER TABLE kv_entries ADD COLUMN IF NOT EXISTS version BIGINT NOT NULL DEFAULT 1`,
}

// PostgresStore persists entries in PostgreSQL through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ KV = (*PostgresStore)(nil)

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("create kv_entries: %w", err)
		}
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, _, ok, err := s.GetVersion(ctx, key)
	return v, ok, err
}

func (s *PostgresStore) GetVersion(ctx context.Context, key string) (string, int64, bool, error) {
	var (
		value   string
		version int64
	)
	err := s.pool.QueryRow(ctx, `SELECT value, version FROM kv_entries WHERE key = $1`, key).Scan(&value, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, version, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO kv_entries (key, value, version, updated_at) VALUES ($1, $2, 1, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			version = kv_entries.version + 1,
			updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) CompareAndSet(ctx context.Context, key, value string, version int64) error {
	var (
		tag pgconn.CommandTag
		err error
	)
	if version == 0 {
		tag, err = s.pool.Exec(ctx, `
			INSERT INTO kv_entries (key, value, version, updated_at) VALUES ($1, $2, 1, now())
			ON CONFLICT (key) DO NOTHING`,
			key, value)
	} else {
		tag, err = s.pool.Exec(ctx, `
			UPDATE kv_entries SET value = $2, version = version + 1, updated_at = now()
			WHERE key = $1 AND version = $3`,
			key, value, version)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
