// Package procwatch reports whether the game process is running.
package procwatch

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Watcher polls the process table for any of the configured names. The game
// client typically shows up under its own name or as a bare JVM.
type Watcher struct {
	names    []string
	interval time.Duration
	present  atomic.Bool
	onChange func(bool)

	listProcs func() ([]string, error)
}

// New creates a watcher for the given process names (matched case-insensitively
// as substrings). onChange may be nil.
func New(names []string, interval time.Duration, onChange func(bool)) *Watcher {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(n)
	}
	return &Watcher{
		names:     lowered,
		interval:  interval,
		onChange:  onChange,
		listProcs: listProcessNames,
	}
}

// Present reports the result of the most recent scan.
func (w *Watcher) Present() bool {
	return w.present.Load()
}

// Run scans until ctx is cancelled. The first scan happens immediately so
// Present is meaningful right after startup.
func (w *Watcher) Run(ctx context.Context) {
	w.scan()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *Watcher) scan() {
	names, err := w.listProcs()
	if err != nil {
		slog.Debug("process scan failed", "error", err)
		return
	}

	found := false
	for _, name := range names {
		if w.matches(name) {
			found = true
			break
		}
	}

	was := w.present.Swap(found)
	if was != found {
		slog.Info("game process presence changed", "present", found)
		if w.onChange != nil {
			w.onChange(found)
		}
	}
}

func (w *Watcher) matches(procName string) bool {
	lowered := strings.ToLower(procName)
	for _, want := range w.names {
		if strings.Contains(lowered, want) {
			return true
		}
	}
	return false
}

func listProcessNames() ([]string, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue // process may have exited mid-scan
		}
		names = append(names, name)
	}
	return names, nil
}
