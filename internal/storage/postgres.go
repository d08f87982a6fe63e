package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS collections (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);`

// Postgres keeps snapshots in a key/value table on a shared server. Writers
// on different processes are last-write-wins per key; no merge protocol.
type Postgres struct {
	conn *sql.DB
}

func NewPostgres(ctx context.Context, conn *sql.DB) (*Postgres, error) {
	if _, err := conn.ExecContext(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("create collections table: %w", err)
	}
	return &Postgres{conn: conn}, nil
}

func (p *Postgres) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.conn.QueryRowContext(ctx, `SELECT value FROM collections WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return value, nil
}

func (p *Postgres) Save(ctx context.Context, key string, value []byte) error {
	_, err := p.conn.ExecContext(ctx,
		`INSERT INTO collections (key, value, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	if _, err := p.conn.ExecContext(ctx, `DELETE FROM collections WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
