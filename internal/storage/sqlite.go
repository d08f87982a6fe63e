package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS collections (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);`

// SQLite keeps snapshots in a single key/value table.
type SQLite struct {
	conn *sql.DB
}

func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create collections table: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

func (s *SQLite) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.conn.QueryRowContext(ctx, `SELECT value FROM collections WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLite) Save(ctx context.Context, key string, value []byte) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO collections (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM collections WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.conn.Close()
}
