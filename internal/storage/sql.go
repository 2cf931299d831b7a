package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Dialect selects placeholder style for the kv_store queries.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// SQL persists values in the kv_store table created by the database package
// migrations. Close does not close the shared *sql.DB.
type SQL struct {
	db      *sql.DB
	getSQL  string
	setSQL  string
	dialect Dialect
}

func NewSQL(db *sql.DB, dialect Dialect) *SQL {
	s := &SQL{db: db, dialect: dialect}
	switch dialect {
	case DialectPostgres:
		s.getSQL = `SELECT value FROM kv_store WHERE key = $1`
		s.setSQL = `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	default:
		s.getSQL = `SELECT value FROM kv_store WHERE key = ?`
		s.setSQL = `INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	}
	return s
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.getSQL, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *SQL) Set(ctx context.Context, key string, value []byte) error {
	var updatedAt any = time.Now().UTC()
	if s.dialect == DialectSQLite {
		updatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if _, err := s.db.ExecContext(ctx, s.setSQL, key, string(value), updatedAt); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

func (s *SQL) Close() error { return nil }
