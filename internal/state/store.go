package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/toparvion/analogtail/internal/events"
)

// Snapshot represents the latest connection health available to the UI.
type Snapshot struct {
	Connected     bool
	EverConnected bool
	LastConnected time.Time
	LastEvent     events.Kind
	LastUpdated   time.Time
	LastError     error
	Outages       int // Number of outages seen since start
	Records       int // Record batches received since start
}

// IsOffline returns true when a connection existed once and is now lost, or when
// the very first connection attempt failed.
func (s Snapshot) IsOffline() bool {
	return !s.Connected && s.LastError != nil
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Observe folds a session event into the snapshot.
func (s *Store) Observe(e events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := e.At
	if now.IsZero() {
		now = time.Now()
	}

	switch e.Kind {
	case events.ServerConnected:
		s.snapshot.Connected = true
		s.snapshot.EverConnected = true
		s.snapshot.LastConnected = now
		s.snapshot.LastError = nil
	case events.ServerDisconnected:
		s.snapshot.Connected = false
		s.snapshot.Outages++
		s.snapshot.LastError = eventError(e)
	case events.ServerFailure:
		s.snapshot.LastError = eventError(e)
	case events.RecordReceived:
		s.snapshot.Records++
		return
	default:
		return
	}
	s.snapshot.LastEvent = e.Kind
	s.snapshot.LastUpdated = now
}

func eventError(e events.Event) error {
	if e.Err != nil {
		return e.Err
	}
	if e.Message != "" {
		return fmt.Errorf("%s", e.Message)
	}
	return fmt.Errorf("%s", e.Kind)
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
