package catalog

import (
	"log/slog"
	"sync"
	"time"

	"github.com/popguide/catalog-server/internal/status"
)

// Store holds the current catalog snapshot and its load status.
//
// The snapshot is replaced wholesale on every successful load and never
// mutated in place. Readers that hold an older snapshot keep a consistent view.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
	status  status.LoadStatus
}

// NewStore creates a store holding the empty snapshot in the pending phase
func NewStore() *Store {
	return &Store{
		current: Empty(),
		status:  status.LoadStatus{Phase: status.LoadPhasePending},
	}
}

// Current returns the active snapshot. It never returns nil.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Status returns a copy of the load status
func (s *Store) Status() status.LoadStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Replace installs a snapshot built from records. When hash matches the
// current snapshot's hash the call only refreshes the load status and the
// active snapshot keeps its identity. It reports whether a new snapshot was installed.
func (s *Store) Replace(records []Item, hash string) (*Snapshot, bool) {
	now := time.Now()

	s.mu.Lock()
	if s.current != empty && hash != "" && s.current.Hash() == hash {
		s.status.Phase = status.LoadPhaseLoaded
		s.status.Message = "catalog unchanged"
		s.status.LastAttempt = &now
		s.status.AttemptCount = 0
		snap := s.current
		s.mu.Unlock()
		slog.Debug("Catalog unchanged, keeping snapshot", "generation", snap.Generation())
		return snap, false
	}

	snap := NewSnapshot(records, hash)
	s.current = snap
	s.status = status.LoadStatus{
		Phase:        status.LoadPhaseLoaded,
		Message:      "catalog loaded",
		LastAttempt:  &now,
		LastLoadTime: &now,
		LastLoadHash: hash,
		ItemCount:    snap.Len(),
	}
	s.mu.Unlock()

	slog.Info("Catalog snapshot replaced",
		"generation", snap.Generation(),
		"item_count", snap.Len(),
		"rejected", snap.Rejected())

	return snap, true
}

// Fail records a failed load attempt. The current snapshot is kept, so a
// catalog that never loaded stays empty.
func (s *Store) Fail(err error) {
	now := time.Now()

	s.mu.Lock()
	s.status.Phase = status.LoadPhaseFailed
	s.status.Message = err.Error()
	s.status.LastAttempt = &now
	s.status.AttemptCount++
	attempts := s.status.AttemptCount
	items := s.current.Len()
	s.mu.Unlock()

	slog.Warn("Catalog load failed, serving previous snapshot",
		"error", err,
		"attempt_count", attempts,
		"item_count", items)
}
