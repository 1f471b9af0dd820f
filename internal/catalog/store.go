package catalog

import (
	"fmt"
	"sync"
	"time"

	"github.com/nao1215/reportdeck/internal/model"
)

// Store holds the committed catalog.
//
// Loads are tagged with a generation from Begin. Commit accepts a result
// only when no newer generation has been committed, so a slow load that
// finishes after a fast, newer one cannot overwrite it. The record set is
// replaced wholesale; it is never patched.
type Store struct {
	mu        sync.RWMutex
	issued    uint64
	committed uint64
	result    *Result
	err       error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Begin reserves the generation for a new load.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Commit publishes the outcome of the load tagged gen.
// A nil loadErr replaces the record set with result. A non-nil loadErr
// keeps the previous records but marks the catalog as failed until a later
// load succeeds. Commit returns ErrStaleGeneration and changes nothing
// when a newer generation was already committed.
func (s *Store) Commit(gen uint64, result *Result, loadErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen < s.committed {
		return fmt.Errorf("%w: %d < %d", ErrStaleGeneration, gen, s.committed)
	}

	s.committed = gen
	if loadErr != nil {
		s.err = loadErr
		return nil
	}
	s.result = result
	s.err = nil
	return nil
}

// Snapshot is a consistent read of the store.
type Snapshot struct {
	// Records is the committed record set. Callers must not modify it.
	Records []model.Report

	// Index is the committed manifest, nil before the first success.
	Index *model.Index

	// Skipped lists documents dropped by the committed load.
	Skipped []Skipped

	// Fingerprint identifies the committed record set.
	Fingerprint string

	// LoadedAt is when the committed records were loaded.
	LoadedAt time.Time

	// Generation is the last committed generation, zero before any commit.
	Generation uint64

	// Err is the error of the last committed load, nil on success.
	Err error
}

// Ready reports whether a load has been committed.
func (s Snapshot) Ready() bool {
	return s.Generation > 0
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Generation: s.committed,
		Err:        s.err,
	}
	if s.result != nil {
		snap.Records = s.result.Records
		snap.Index = s.result.Index
		snap.Skipped = s.result.Skipped
		snap.Fingerprint = s.result.Fingerprint
		snap.LoadedAt = s.result.LoadedAt
	}
	return snap
}
