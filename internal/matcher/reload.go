package matcher

import (
	"context"
	"fmt"
	"sync"
)

// SnapshotLoader builds a fresh snapshot from durable storage.
type SnapshotLoader interface {
	LoadAll(ctx context.Context) (*Snapshot, error)
}

// Reloader rebuilds the matcher's snapshot from storage and publishes it.
// Concurrent reloads serialize on the mutex; whichever rebuild runs last
// publishes last, so the matcher always reflects a complete load.
type Reloader struct {
	mu      sync.Mutex
	loader  SnapshotLoader
	matcher *Matcher
}

// NewReloader wires a loader to a matcher.
func NewReloader(loader SnapshotLoader, m *Matcher) *Reloader {
	return &Reloader{loader: loader, matcher: m}
}

// Reload builds a new snapshot off to the side and publishes it atomically.
// Returns the number of faces loaded.
func (r *Reloader) Reload(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.loader.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("rebuilding face snapshot: %w", err)
	}
	r.matcher.Publish(snap)
	return snap.Len(), nil
}
