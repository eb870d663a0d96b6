// Package postgres implements the networked storage backend on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/jsetina/faceclock/internal/config"
	"github.com/jsetina/faceclock/internal/database"
)

// Store is the PostgreSQL implementation of database.Store.
type Store struct {
	db *sql.DB
}

// Open connects to PostgreSQL, verifies the connection and creates the
// schema. A connection failure is reported as database.ErrConnection so the
// caller can fall back to the embedded backend.
func Open(cfg *config.DatabaseConfig) (*Store, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL not set", database.ErrConnection)
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", database.ErrConnection, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", database.ErrConnection, err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// migrate creates the two tables if absent. Safe to run on every startup.
func (s *Store) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS employees (
			id           SERIAL PRIMARY KEY,
			name         VARCHAR(100) NOT NULL,
			department   VARCHAR(100) NOT NULL,
			position     VARCHAR(100) NOT NULL,
			encoding_ref TEXT NOT NULL,
			created_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS attendance_events (
			id         SERIAL PRIMARY KEY,
			name       VARCHAR(100) NOT NULL,
			department VARCHAR(100),
			position   VARCHAR(100),
			date       DATE NOT NULL,
			time       TIME NOT NULL,
			image_path TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS attendance_events_date_idx
			ON attendance_events(date)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}
	return nil
}

// Backend names this backend.
func (s *Store) Backend() string { return "postgres" }

// DB returns the underlying sql.DB for direct access in tests.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}

var _ database.Store = (*Store)(nil)

// errNoRows maps sql.ErrNoRows checks in aggregate queries.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
