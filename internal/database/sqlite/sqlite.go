// Package sqlite implements the embedded storage backend used when no
// PostgreSQL server is reachable. It creates the same logical schema and
// returns the same typed records as the postgres package.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jsetina/faceclock/internal/database"
)

// Store is the SQLite implementation of database.Store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database file and ensures the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// between concurrent request handlers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		name         TEXT NOT NULL,
		department   TEXT NOT NULL,
		position     TEXT NOT NULL,
		encoding_ref TEXT NOT NULL,
		created_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS attendance_events (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		department TEXT,
		position   TEXT,
		date       TEXT NOT NULL,
		time       TEXT NOT NULL,
		image_path TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS attendance_events_date_idx
		ON attendance_events(date);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("executing migration: %w", err)
	}
	return nil
}

// Backend names this backend.
func (s *Store) Backend() string { return "sqlite" }

// Close closes the database file.
func (s *Store) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
	}
	return nil
}

var _ database.Store = (*Store)(nil)
