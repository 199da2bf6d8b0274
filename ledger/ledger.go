// Package ledger holds the in-memory counter state for one counting session.
package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shuntapp/shunt/internal/types"
)

// State is the portable form of a session, shared with the persistence layer.
type State struct {
	ID         string            `json:"id"`
	Counts     map[string]uint64 `json:"counts"`
	Total      uint64            `json:"total"`
	LastLabels []string          `json:"last_labels,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
}

// Session is the authoritative counter state for one shunt.
//
// Apply is single-writer: only the goroutine owning the session calls it.
// Snapshot may be called concurrently from the UI side; the mutex keeps the
// critical section bounded to a map copy.
type Session struct {
	mu             sync.Mutex
	id             uuid.UUID
	counts         map[string]uint64
	total          uint64
	lastLabels     []string
	pending        int
	flushThreshold int
	startedAt      time.Time
}

// New creates an empty session with the given flush threshold.
func New(flushThreshold int) *Session {
	if flushThreshold < 1 {
		flushThreshold = 1
	}
	return &Session{
		id:             uuid.New(),
		counts:         make(map[string]uint64),
		flushThreshold: flushThreshold,
		startedAt:      time.Now(),
	}
}

// FromState restores a session from a persisted state, e.g. after a restart.
func FromState(st State, flushThreshold int) *Session {
	s := New(flushThreshold)
	if id, err := uuid.Parse(st.ID); err == nil {
		s.id = id
	}
	for label, n := range st.Counts {
		s.counts[label] = n
	}
	s.total = st.Total
	s.lastLabels = append([]string(nil), st.LastLabels...)
	if !st.StartedAt.IsZero() {
		s.startedAt = st.StartedAt
	}
	return s
}

// Apply folds one encounter event into the counters. Every label on the
// event counts once (horde encounters carry several).
func (s *Session) Apply(ev types.EncounterEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, label := range ev.Labels {
		s.counts[label]++
		s.total++
	}
	s.lastLabels = append([]string(nil), ev.Labels...)
	s.pending++
}

// ShouldFlush reports whether enough events accumulated since the last flush.
func (s *Session) ShouldFlush() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending >= s.flushThreshold
}

// Pending returns the number of events applied since the last flush.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// ClearPending resets the dirty counter after a successful flush.
func (s *Session) ClearPending() {
	s.mu.Lock()
	s.pending = 0
	s.mu.Unlock()
}

// Reset clears all counters and starts a fresh session identity.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = uuid.New()
	s.counts = make(map[string]uint64)
	s.total = 0
	s.lastLabels = nil
	s.pending = 0
	s.startedAt = time.Now()
}

// Export returns the portable state for persistence.
func (s *Session) Export() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]uint64, len(s.counts))
	for label, n := range s.counts {
		counts[label] = n
	}
	return State{
		ID:         s.id.String(),
		Counts:     counts,
		Total:      s.total,
		LastLabels: append([]string(nil), s.lastLabels...),
		StartedAt:  s.startedAt,
	}
}

// Snapshot returns an immutable copy of the counters for rendering.
// The State field is left to the caller, which owns the control state.
func (s *Session) Snapshot() types.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]uint64, len(s.counts))
	sorted := make([]types.LabelCount, 0, len(s.counts))
	for label, n := range s.counts {
		counts[label] = n
		sorted = append(sorted, types.LabelCount{Label: label, Count: n})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Label < sorted[j].Label
	})

	return types.Snapshot{
		SessionID:  s.id.String(),
		Counts:     counts,
		Sorted:     sorted,
		Total:      s.total,
		LastLabels: append([]string(nil), s.lastLabels...),
		StartedAt:  s.startedAt,
	}
}
