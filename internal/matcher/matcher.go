// Package matcher holds the in-memory set of known face encodings and
// answers "who is this?" queries against it. The known set is an immutable
// snapshot behind an atomically swappable reference: reloads build a new
// snapshot off to the side and publish it in one step, so match queries never
// observe a half-rebuilt state.
package matcher

import (
	"sync/atomic"

	"github.com/jsetina/faceclock/internal/database"
)

// Snapshot is an immutable set of known face encodings with their identity
// metadata. Encodings[i] belongs to Identities[i]. Never mutate a snapshot
// after it has been published.
type Snapshot struct {
	Encodings  [][]float32
	Identities []database.EmployeeSummary
}

// Len returns the number of known faces in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.Encodings)
}

// Matcher answers nearest-match queries against the current snapshot.
type Matcher struct {
	current atomic.Pointer[Snapshot]
}

// New creates a Matcher with an empty snapshot.
func New() *Matcher {
	m := &Matcher{}
	m.current.Store(&Snapshot{})
	return m
}

// Match compares the probe against every known encoding in snapshot order
// and returns the identity of the first one within tolerance. This is
// first-match-wins, not best-match: an earlier registration within tolerance
// beats a closer later one.
func (m *Matcher) Match(probe []float32, tolerance float64) (database.EmployeeSummary, bool) {
	snap := m.current.Load()
	for i, enc := range snap.Encodings {
		if EuclideanDistance(probe, enc) <= tolerance {
			return snap.Identities[i], true
		}
	}
	return database.EmployeeSummary{}, false
}

// Publish atomically replaces the current snapshot. In-flight Match calls
// keep the snapshot they started with.
func (m *Matcher) Publish(snap *Snapshot) {
	if snap == nil {
		snap = &Snapshot{}
	}
	m.current.Store(snap)
}

// Current returns the current snapshot.
func (m *Matcher) Current() *Snapshot {
	return m.current.Load()
}

// Count returns the number of faces in the current snapshot.
func (m *Matcher) Count() int {
	return m.current.Load().Len()
}
