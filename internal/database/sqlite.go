package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteSchemaVersion is the current schema version for the local SQLite database.
const SQLiteSchemaVersion = 1

// OpenSQLite opens (or creates) a SQLite database at dbPath and applies migrations.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("open sqlite: empty db path")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("open sqlite: create db dir: %w", err)
	}

	dsn := "file:" + dbPath + "?mode=rwc&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: sql open: %w", err)
	}
	// one writer keeps SQLITE_BUSY away from concurrent handlers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite: ping: %w", err)
	}

	if err := MigrateSQLite(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite: migrate: %w", err)
	}

	return db, nil
}

// MigrateSQLite ensures the SQLite schema exists and is at SQLiteSchemaVersion.
func MigrateSQLite(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migrate: db is nil")
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`); err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current); err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}
	if current >= SQLiteSchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate: create kv_store table: %w", err)
	}

	if _, err = tx.Exec(`INSERT INTO schema_migrations(version) VALUES (?);`, SQLiteSchemaVersion); err != nil {
		return fmt.Errorf("migrate: record schema version: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit transaction: %w", err)
	}
	return nil
}
