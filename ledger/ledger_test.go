package ledger

import (
	"testing"
	"time"

	"github.com/shuntapp/shunt/internal/types"
)

func event(labels ...string) types.EncounterEvent {
	return types.EncounterEvent{Labels: labels, DetectedAt: time.Now()}
}

func TestTotalMatchesSumOfCounts(t *testing.T) {
	s := New(5)

	events := []types.EncounterEvent{
		event("pikachu"),
		event("rattata"),
		event("pikachu"),
		event("zubat", "zubat", "zubat"), // horde
		event("pikachu"),
	}
	for _, ev := range events {
		s.Apply(ev)
	}

	snap := s.Snapshot()
	var sum uint64
	for _, n := range snap.Counts {
		sum += n
	}
	if snap.Total != sum {
		t.Errorf("Total = %d, sum of counts = %d", snap.Total, sum)
	}
	if snap.Total != 7 {
		t.Errorf("Total = %d, want 7", snap.Total)
	}
	if snap.Counts["zubat"] != 3 {
		t.Errorf("counts[zubat] = %d, want 3", snap.Counts["zubat"])
	}
}

func TestFlushThreshold(t *testing.T) {
	s := New(5)

	for i := 0; i < 4; i++ {
		s.Apply(event("rattata"))
		if s.ShouldFlush() {
			t.Fatalf("ShouldFlush() true after %d events, want false", i+1)
		}
	}

	s.Apply(event("rattata"))
	if !s.ShouldFlush() {
		t.Error("ShouldFlush() false after 5 events, want true")
	}

	s.ClearPending()
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after ClearPending, want 0", s.Pending())
	}
	if s.ShouldFlush() {
		t.Error("ShouldFlush() true after ClearPending, want false")
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := New(5)
	s.Apply(event("pikachu"))
	s.Apply(event("rattata"))
	oldID := s.Snapshot().SessionID

	s.Reset()

	snap := s.Snapshot()
	if snap.Total != 0 || len(snap.Counts) != 0 {
		t.Errorf("after Reset: total=%d counts=%v, want empty", snap.Total, snap.Counts)
	}
	if len(snap.LastLabels) != 0 {
		t.Errorf("after Reset: lastLabels=%v, want empty", snap.LastLabels)
	}
	if s.Pending() != 0 {
		t.Errorf("after Reset: pending=%d, want 0", s.Pending())
	}
	if snap.SessionID == oldID {
		t.Error("Reset kept the old session id")
	}
}

func TestExportRestoreRoundTrip(t *testing.T) {
	s := New(5)
	s.Apply(event("pikachu"))
	s.Apply(event("zubat"))
	s.Apply(event("pikachu"))

	st := s.Export()
	restored := FromState(st, 5)

	got := restored.Snapshot()
	want := s.Snapshot()
	if got.Total != want.Total {
		t.Errorf("restored Total = %d, want %d", got.Total, want.Total)
	}
	if got.SessionID != want.SessionID {
		t.Errorf("restored SessionID = %s, want %s", got.SessionID, want.SessionID)
	}
	for label, n := range want.Counts {
		if got.Counts[label] != n {
			t.Errorf("restored counts[%s] = %d, want %d", label, got.Counts[label], n)
		}
	}
	// Pending is deliberately not persisted: a freshly loaded session is clean.
	if restored.Pending() != 0 {
		t.Errorf("restored Pending = %d, want 0", restored.Pending())
	}
}

func TestSnapshotSortedDescending(t *testing.T) {
	s := New(5)
	s.Apply(event("rattata"))
	s.Apply(event("pikachu"))
	s.Apply(event("pikachu"))
	s.Apply(event("zubat"))
	s.Apply(event("pikachu"))

	snap := s.Snapshot()
	if len(snap.Sorted) != 3 {
		t.Fatalf("len(Sorted) = %d, want 3", len(snap.Sorted))
	}
	if snap.Sorted[0].Label != "pikachu" || snap.Sorted[0].Count != 3 {
		t.Errorf("Sorted[0] = %+v, want pikachu/3", snap.Sorted[0])
	}
	for i := 1; i < len(snap.Sorted); i++ {
		if snap.Sorted[i].Count > snap.Sorted[i-1].Count {
			t.Errorf("Sorted not descending at %d: %+v", i, snap.Sorted)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New(5)
	s.Apply(event("pikachu"))

	snap := s.Snapshot()
	snap.Counts["pikachu"] = 99

	if got := s.Snapshot().Counts["pikachu"]; got != 1 {
		t.Errorf("mutating a snapshot leaked into the session: counts[pikachu] = %d", got)
	}
}
