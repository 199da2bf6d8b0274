package app

import (
	"log/slog"
	"sync"

	"github.com/shuntapp/shunt/internal/types"
)

// stateMachine tracks the session lifecycle. Invalid transitions are no-ops
// logged at debug level so UI controls stay simple; the one exception is
// Reset while Running, which callers reject loudly before reaching here.
type stateMachine struct {
	mu    sync.Mutex
	state types.ControlState
}

func newStateMachine() *stateMachine {
	return &stateMachine{state: types.StateStopped}
}

// State returns the current control state.
func (m *stateMachine) State() types.ControlState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// apply attempts the transition for cmd and reports whether the state moved.
func (m *stateMachine) apply(cmd types.Command) (types.ControlState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, ok := transition(m.state, cmd)
	if !ok {
		slog.Debug("invalid control transition", "state", m.state, "command", cmd)
		return m.state, false
	}
	m.state = next
	return next, true
}

func transition(state types.ControlState, cmd types.Command) (types.ControlState, bool) {
	switch cmd {
	case types.CmdStart:
		// Start doubles as resume so a single hotkey drives both.
		if state == types.StateStopped || state == types.StatePaused {
			return types.StateRunning, true
		}
	case types.CmdResume:
		if state == types.StatePaused {
			return types.StateRunning, true
		}
	case types.CmdPause:
		if state == types.StateRunning {
			return types.StatePaused, true
		}
	case types.CmdReset:
		// Reset while Running is a usage error handled before dispatch.
		if state == types.StatePaused || state == types.StateStopped {
			return types.StateStopped, true
		}
	case types.CmdQuit:
		return types.StateStopped, true
	}
	return state, false
}
