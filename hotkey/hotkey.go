// Package hotkey dispatches global keyboard shortcuts to session commands.
package hotkey

import (
	"log/slog"
	"sync"

	hook "github.com/robotn/gohook"

	"github.com/shuntapp/shunt/internal/types"
)

// Bindings maps single keys to commands: S starts (or resumes), P pauses,
// R resets, Q quits. Matches the button accelerators shown in the UI.
var bindings = map[string]types.Command{
	"s": types.CmdStart,
	"p": types.CmdPause,
	"r": types.CmdReset,
	"q": types.CmdQuit,
}

// Manager owns the global keyboard hook lifecycle.
type Manager struct {
	onCommand func(types.Command)

	mu      sync.Mutex
	running bool
	events  chan hook.Event
}

// NewManager creates a hotkey manager dispatching to onCommand. Dispatch
// happens on the hook goroutine; the callback must not block.
func NewManager(onCommand func(types.Command)) *Manager {
	return &Manager{onCommand: onCommand}
}

// Start registers the key handlers and begins listening. Requires the OS
// accessibility/input-monitoring permission; failure to acquire it surfaces
// as handlers that never fire, not as an error.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true

	for key, cmd := range bindings {
		cmd := cmd
		hook.Register(hook.KeyDown, []string{key}, func(e hook.Event) {
			slog.Debug("hotkey", "command", cmd)
			m.onCommand(cmd)
		})
	}

	m.events = hook.Start()
	go func() {
		<-hook.Process(m.events)
	}()
}

// Stop tears down the keyboard hook.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	hook.End()
}
