// Package encodings persists face encodings: one JSON blob per registration
// on disk, referenced by an employee row in the database. Loading resolves
// every row's blob and skips the ones that are missing or unreadable, so a
// single corrupted registration cannot take down matching for everyone else.
package encodings

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jsetina/faceclock/internal/database"
	"github.com/jsetina/faceclock/internal/matcher"
)

// Store writes and loads face encoding blobs.
type Store struct {
	db  database.Store
	dir string
}

// NewStore creates the encoding directory if needed.
func NewStore(db database.Store, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating encoding directory: %w", err)
	}
	return &Store{db: db, dir: dir}, nil
}

// Append writes the encoding blob and inserts the employee row referencing
// it, in that order: the row only ever points at a blob that is already on
// disk. If the row insert fails the blob is removed so no orphan lingers.
// Blob file names carry a random suffix, so re-registering a name never
// overwrites an earlier registration's encoding.
func (s *Store) Append(ctx context.Context, e *database.Employee, encoding []float32) (string, error) {
	if len(encoding) == 0 {
		return "", fmt.Errorf("refusing to store empty encoding for %q", e.Name)
	}

	ref := fmt.Sprintf("%s_%s.json", Slug(e.Name), uuid.NewString()[:8])
	path := filepath.Join(s.dir, ref)

	data, err := json.Marshal(encoding)
	if err != nil {
		return "", fmt.Errorf("marshaling encoding: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing encoding blob: %w", err)
	}

	e.EncodingRef = ref
	if _, err := s.db.InsertEmployee(ctx, e); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("inserting employee row: %w", err)
	}
	return ref, nil
}

// LoadAll reads every employee row and resolves its encoding blob into a
// fresh snapshot, in registration order. Rows whose blob is missing or
// unreadable are logged and skipped.
func (s *Store) LoadAll(ctx context.Context) (*matcher.Snapshot, error) {
	employees, err := s.db.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}

	snap := &matcher.Snapshot{}
	for _, e := range employees {
		encoding, err := s.readBlob(e.EncodingRef)
		if err != nil {
			log.Printf("skipping encoding for %s (id %d): %v", e.Name, e.ID, err)
			continue
		}
		snap.Encodings = append(snap.Encodings, encoding)
		snap.Identities = append(snap.Identities, e.Summary())
	}
	return snap, nil
}

func (s *Store) readBlob(ref string) ([]float32, error) {
	if ref == "" {
		return nil, fmt.Errorf("empty encoding reference")
	}
	data, err := os.ReadFile(filepath.Join(s.dir, ref))
	if err != nil {
		return nil, fmt.Errorf("reading blob: %w", err)
	}
	var encoding []float32
	if err := json.Unmarshal(data, &encoding); err != nil {
		return nil, fmt.Errorf("decoding blob %s: %w", ref, err)
	}
	if len(encoding) == 0 {
		return nil, fmt.Errorf("blob %s holds no encoding", ref)
	}
	return encoding, nil
}

// Dir returns the encoding directory.
func (s *Store) Dir() string { return s.dir }

var _ matcher.SnapshotLoader = (*Store)(nil)
