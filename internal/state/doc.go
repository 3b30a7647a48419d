// Package state provides a thread-safe view of connection health for the UI.
//
// # Overview
//
// The Store folds session events (connected, disconnected, failure, records) into a
// Snapshot. Writers are the event loop handlers; readers are the header and status
// line renderers and the headless tail summary.
//
// # Concurrency Model
//
// The Store uses a readers-writer lock:
//
//   - Observe(): Acquires write lock (exclusive access)
//   - Snapshot(): Acquires read lock (concurrent reads allowed)
//
// Snapshot returns a copy; the stored error is wrapped so callers never share the
// instance kept inside the store.
//
// # Usage Example
//
//	store := &state.Store{}
//	router.OnAny(store.Observe)
//
//	snap := store.Snapshot()
//	if snap.IsOffline() {
//		renderOffline(snap.LastError)
//	}
//
// The zero Store is ready to use.
package state
