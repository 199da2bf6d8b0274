package app

import (
	"sync"

	"github.com/shuntapp/shunt/internal/types"
)

// Event names for frontend communication.
const (
	EventSnapshot = "encounter-snapshot"
	EventStatus   = "status-update"
)

// snapshotHolder is the coalescing point between the ledger owner and the UI.
// The owner overwrites the latest snapshot; the UI pulls whatever is newest.
// Intermediate snapshots are deliberately dropped, which is what keeps UI
// slowness from ever backpressuring the detector.
type snapshotHolder struct {
	mu   sync.RWMutex
	snap types.Snapshot
	set  bool
}

// Set publishes a newer snapshot, replacing any unread one.
func (h *snapshotHolder) Set(snap types.Snapshot) {
	h.mu.Lock()
	h.snap = snap
	h.set = true
	h.mu.Unlock()
}

// Get returns the most recently published snapshot.
func (h *snapshotHolder) Get() (types.Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap, h.set
}
