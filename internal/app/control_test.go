package app

import (
	"testing"

	"github.com/shuntapp/shunt/internal/types"
)

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		name  string
		state types.ControlState
		cmd   types.Command
		want  types.ControlState
		moved bool
	}{
		{"start from stopped", types.StateStopped, types.CmdStart, types.StateRunning, true},
		{"start doubles as resume", types.StatePaused, types.CmdStart, types.StateRunning, true},
		{"start while running is a no-op", types.StateRunning, types.CmdStart, types.StateRunning, false},
		{"pause from running", types.StateRunning, types.CmdPause, types.StatePaused, true},
		{"pause while stopped is a no-op", types.StateStopped, types.CmdPause, types.StateStopped, false},
		{"pause while paused is a no-op", types.StatePaused, types.CmdPause, types.StatePaused, false},
		{"resume from paused", types.StatePaused, types.CmdResume, types.StateRunning, true},
		{"resume while stopped is a no-op", types.StateStopped, types.CmdResume, types.StateStopped, false},
		{"reset from paused", types.StatePaused, types.CmdReset, types.StateStopped, true},
		{"reset from stopped", types.StateStopped, types.CmdReset, types.StateStopped, true},
		{"reset while running is rejected", types.StateRunning, types.CmdReset, types.StateRunning, false},
		{"quit from running", types.StateRunning, types.CmdQuit, types.StateStopped, true},
		{"quit from stopped", types.StateStopped, types.CmdQuit, types.StateStopped, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &stateMachine{state: tt.state}
			got, moved := m.apply(tt.cmd)
			if got != tt.want || moved != tt.moved {
				t.Errorf("apply(%s from %s) = (%s, %v), want (%s, %v)",
					tt.cmd, tt.state, got, moved, tt.want, tt.moved)
			}
		})
	}
}

func TestSnapshotHolderCoalesces(t *testing.T) {
	h := &snapshotHolder{}

	if _, ok := h.Get(); ok {
		t.Error("empty holder reported a snapshot")
	}

	h.Set(types.Snapshot{Total: 1})
	h.Set(types.Snapshot{Total: 2})
	h.Set(types.Snapshot{Total: 3})

	snap, ok := h.Get()
	if !ok || snap.Total != 3 {
		t.Errorf("Get() = (%+v, %v), want the newest snapshot", snap, ok)
	}
}
