package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported driver names
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Connect opens the item database for the given driver and prepares its schema
func Connect(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		if err := ensureDataDir(dsn); err != nil {
			return nil, err
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// ensureDataDir creates the directory holding a file-backed sqlite database
func ensureDataDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// initializeSchema creates the items table if it doesn't exist
func initializeSchema(ctx context.Context, db *sqlx.DB) error {
	stmts := sqliteSchema
	if db.DriverName() == DriverPostgres {
		stmts = postgresSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS memorization_items (
		id TEXT PRIMARY KEY,
		surah INTEGER NOT NULL CHECK (surah BETWEEN 1 AND 114),
		ayah INTEGER NOT NULL CHECK (ayah >= 1),
		page INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'learning',
		total_reps INTEGER NOT NULL DEFAULT 0,
		consecutive_correct INTEGER NOT NULL DEFAULT 0,
		ease_factor REAL NOT NULL DEFAULT 2.5 CHECK (ease_factor >= 1.3),
		interval_days INTEGER NOT NULL DEFAULT 0,
		next_review_at TIMESTAMP,
		last_attempt_at TIMESTAMP,
		last_grade INTEGER,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE(surah, ayah)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_memorization_items_due
		ON memorization_items (next_review_at, created_at)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS memorization_items (
		id TEXT PRIMARY KEY,
		surah INTEGER NOT NULL CHECK (surah BETWEEN 1 AND 114),
		ayah INTEGER NOT NULL CHECK (ayah >= 1),
		page INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'learning',
		total_reps INTEGER NOT NULL DEFAULT 0,
		consecutive_correct INTEGER NOT NULL DEFAULT 0,
		ease_factor DOUBLE PRECISION NOT NULL DEFAULT 2.5 CHECK (ease_factor >= 1.3),
		interval_days INTEGER NOT NULL DEFAULT 0,
		next_review_at TIMESTAMPTZ,
		last_attempt_at TIMESTAMPTZ,
		last_grade INTEGER,
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE(surah, ayah)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_memorization_items_due
		ON memorization_items (next_review_at, created_at)`,
}
