// Package app provides the core application service for Wails bindings.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/wailsapp/wails/v3/pkg/application"

	"github.com/shuntapp/shunt/clipboard"
	"github.com/shuntapp/shunt/config"
	"github.com/shuntapp/shunt/detector"
	"github.com/shuntapp/shunt/internal/types"
	"github.com/shuntapp/shunt/ledger"
	"github.com/shuntapp/shunt/persist"
	"github.com/shuntapp/shunt/procwatch"
	"github.com/shuntapp/shunt/recognize"
)

// ErrSessionRunning is returned when Reset is requested while the session is
// Running. Pause first; a running shunt is never cleared silently.
var ErrSessionRunning = errors.New("session is running, pause before reset")

// ErrBusy is returned when the command queue is momentarily full.
var ErrBusy = errors.New("command queue full")

// Service wires the detection pipeline to the UI. It is the single owner of
// the session ledger: only its run goroutine mutates it, everything else
// reads snapshots or sends commands.
type Service struct {
	cfg     *config.Config
	session *ledger.Session
	store   *persist.Store
	archive *persist.Archive
	loop    *detector.Loop
	watcher *procwatch.Watcher
	machine *stateMachine
	holder  *snapshotHolder

	cmds   chan types.Command
	cancel context.CancelFunc
	wg     sync.WaitGroup

	quitOnce sync.Once
	onQuit   func()

	// UI references - set via Init
	app    *application.App
	window application.Window
}

// New builds the service from its collaborators and loads the persisted
// session. A save directory that cannot be read is a fatal startup error.
func New(cfg *config.Config, store *persist.Store, archive *persist.Archive, adapter recognize.Adapter) (*Service, error) {
	rec, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load save log: %w", err)
	}
	if rec.Crashed {
		slog.Warn("previous session did not exit cleanly, progress restored")
	}

	var session *ledger.Session
	if rec.State.ID != "" {
		session = ledger.FromState(rec.State, cfg.FlushThreshold)
	} else {
		session = ledger.New(cfg.FlushThreshold)
	}

	s := &Service{
		cfg:     cfg,
		session: session,
		store:   store,
		archive: archive,
		machine: newStateMachine(),
		holder:  &snapshotHolder{},
		cmds:    make(chan types.Command, 8),
	}
	s.loop = detector.New(adapter, cfg.Detector, s.machine.State, s.gamePresent)
	s.watcher = procwatch.New(cfg.GameNames, 0, func(present bool) {
		s.publishStatus("info", gameStatusMessage(present))
	})

	if rec.Crashed {
		s.publishStatus("warn", "previous session crashed; progress was restored")
	}
	return s, nil
}

// Init attaches the Wails references. Must be called before Start when
// running under the GUI; tests skip it.
func (s *Service) Init(app *application.App, window application.Window) {
	s.app = app
	s.window = window
}

// SetQuitHandler registers the callback invoked after final teardown.
func (s *Service) SetQuitHandler(fn func()) {
	s.onQuit = fn
}

// Start launches the detector loop, the process watcher, and the ledger
// owner goroutine, and installs the crash handlers.
func (s *Service) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(3)
	go func() {
		defer s.wg.Done()
		s.loop.Run(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.watcher.Run(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()

	persist.RegisterCrashHandlers(s.crashFlush)
	s.publishSnapshot()
}

// Shutdown performs the orderly quit path. Safe to call more than once.
func (s *Service) Shutdown() {
	s.quit()
	s.wg.Wait()
}

// run is the ledger owner loop: it is the only goroutine that mutates the
// session, so applies stay strictly ordered and flushes never reorder ahead
// of pending events.
func (s *Service) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.loop.Events():
			s.applyEvent(ev)
		case cmd := <-s.cmds:
			s.handleCommand(cmd)
		}
	}
}

func (s *Service) applyEvent(ev types.EncounterEvent) {
	// Events emitted just before a pause or stop may still be queued;
	// gate again at the apply side.
	if s.machine.State() != types.StateRunning {
		return
	}

	s.session.Apply(ev)
	s.publishSnapshot()

	if s.session.ShouldFlush() {
		s.flush(false)
	}
}

// SendCommand dispatches a user command to the owner goroutine. Reset while
// Running is rejected here, synchronously, as a usage error.
func (s *Service) SendCommand(cmd types.Command) error {
	if cmd == types.CmdReset && s.machine.State() == types.StateRunning {
		return ErrSessionRunning
	}

	select {
	case s.cmds <- cmd:
		return nil
	default:
		return ErrBusy
	}
}

func (s *Service) handleCommand(cmd types.Command) {
	switch cmd {
	case types.CmdStart, types.CmdResume:
		if _, ok := s.machine.apply(cmd); ok {
			s.publishSnapshot()
		}
	case types.CmdPause:
		if _, ok := s.machine.apply(cmd); ok {
			// Pausing is a natural save point.
			s.flush(false)
			s.publishSnapshot()
		}
	case types.CmdReset:
		if _, ok := s.machine.apply(cmd); !ok {
			return
		}
		s.archiveCurrent()
		s.session.Reset()
		s.flush(false)
		s.publishSnapshot()
	case types.CmdQuit:
		s.quit()
	default:
		slog.Debug("unknown command", "command", cmd)
	}
}

func (s *Service) quit() {
	s.quitOnce.Do(func() {
		s.machine.apply(types.CmdQuit)
		if s.cancel != nil {
			s.cancel()
		}
		s.flush(false)
		s.archiveCurrent()
		if s.archive != nil {
			if err := s.archive.Close(); err != nil {
				slog.Error("close archive", "error", err)
			}
		}
		if s.onQuit != nil {
			s.onQuit()
		}
	})
}

// crashFlush is the best-effort save invoked from signal and panic paths.
// It marks the record so the next startup can warn about the unclean exit.
func (s *Service) crashFlush() {
	rec := persist.Record{State: s.session.Export(), Crashed: true, SavedAt: time.Now()}
	if err := s.store.Flush(rec); err != nil {
		slog.Error("crash flush failed", "error", err)
	}
}

// CrashFlush exposes the crash path for the panic hook in main.
func (s *Service) CrashFlush() { s.crashFlush() }

// flush writes the current ledger to the save log. A failed flush keeps the
// in-memory state authoritative and the dirty counter intact, so the write
// is retried at the next threshold trigger.
func (s *Service) flush(crashed bool) {
	rec := persist.Record{State: s.session.Export(), Crashed: crashed, SavedAt: time.Now()}
	if err := s.store.Flush(rec); err != nil {
		slog.Warn("flush failed, retaining in-memory state", "error", err)
		s.publishStatus("warn", "saving progress failed: "+err.Error())
		return
	}
	s.session.ClearPending()
}

func (s *Service) archiveCurrent() {
	if s.archive == nil {
		return
	}
	rec := persist.Record{State: s.session.Export(), SavedAt: time.Now()}
	if err := s.archive.ArchiveShunt(rec); err != nil {
		slog.Warn("archive shunt", "error", err)
	}
}

// GetSnapshot returns the latest published snapshot for the UI tick.
func (s *Service) GetSnapshot() types.Snapshot {
	if snap, ok := s.holder.Get(); ok {
		return snap
	}
	return s.currentSnapshot()
}

// GetState returns the current control state.
func (s *Service) GetState() types.ControlState {
	return s.machine.State()
}

// GetHistory lists archived shunts, newest first.
func (s *Service) GetHistory() ([]types.ShuntSummary, error) {
	if s.archive == nil {
		return nil, nil
	}
	return s.archive.ListShunts()
}

// CopySummary puts a text rendering of the current tally on the clipboard.
func (s *Service) CopySummary() error {
	snap := s.GetSnapshot()

	var b strings.Builder
	fmt.Fprintf(&b, "Encounters: %d\n", snap.Total)
	for _, lc := range snap.Sorted {
		fmt.Fprintf(&b, "%s: %d\n", lc.Label, lc.Count)
	}
	return clipboard.SetText(b.String())
}

func (s *Service) currentSnapshot() types.Snapshot {
	snap := s.session.Snapshot()
	snap.State = s.machine.State()
	return snap
}

func (s *Service) publishSnapshot() {
	snap := s.currentSnapshot()
	s.holder.Set(snap)
	if s.app != nil {
		s.app.Event.Emit(EventSnapshot, snap)
	}
}

func (s *Service) publishStatus(level, msg string) {
	update := types.StatusUpdate{
		Level:       level,
		Message:     msg,
		GamePresent: s.watcher != nil && s.watcher.Present(),
		Dropped:     s.loop.Dropped(),
	}
	if s.app != nil {
		s.app.Event.Emit(EventStatus, update)
	}
}

func (s *Service) gamePresent() bool {
	return s.watcher.Present()
}

func gameStatusMessage(present bool) string {
	if present {
		return "game process detected"
	}
	return "game process not found"
}
