// Package detector runs the background polling loop that turns screen
// recognition results into encounter events.
package detector

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/shuntapp/shunt/config"
	"github.com/shuntapp/shunt/internal/types"
	"github.com/shuntapp/shunt/recognize"
)

// Loop polls the recognition adapter on an adaptive interval and emits
// de-duplicated encounter events on a bounded channel. Sends never block:
// when the receiver is full the newest event is dropped and counted.
type Loop struct {
	adapter recognize.Adapter
	cfg     config.Detector

	state       func() types.ControlState
	gamePresent func() bool
	now         func() time.Time

	events   chan types.EncounterEvent
	interval *IntervalController
	dropped  atomic.Uint64

	// Encounter latch, mirroring the on-screen battle lifecycle: a battle is
	// entered once, counted once, and left when the names disappear.
	inEncounter bool
	counted     bool
	lastLabels  []string
	lastEmit    time.Time
}

// New creates a detector loop. state gates event emission; gamePresent gates
// polling cadence while the game process is absent.
func New(adapter recognize.Adapter, cfg config.Detector, state func() types.ControlState, gamePresent func() bool) *Loop {
	return &Loop{
		adapter:     adapter,
		cfg:         cfg,
		state:       state,
		gamePresent: gamePresent,
		now:         time.Now,
		events:      make(chan types.EncounterEvent, cfg.EventBuffer),
		interval:    NewIntervalController(cfg),
	}
}

// Events returns the channel carrying detected encounters.
func (l *Loop) Events() <-chan types.EncounterEvent {
	return l.events
}

// Dropped returns the number of events discarded because the receiver was full.
func (l *Loop) Dropped() uint64 {
	return l.dropped.Load()
}

// Run polls until ctx is cancelled. It never returns an error: per-cycle
// failures are logged and treated as no detection.
func (l *Loop) Run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		wait := l.cfg.IdleInterval()
		if l.gamePresent == nil || l.gamePresent() {
			start := l.now()
			l.cycle(ctx)
			wait = l.interval.Observe(l.now().Sub(start))
		}
		timer.Reset(wait)
	}
}

// cycle runs one detection pass. Two phases, matching the on-screen battle
// lifecycle: outside an encounter the dialogue region is probed for the
// battle announcement; inside, the headline region is probed for names.
func (l *Loop) cycle(ctx context.Context) {
	if !l.inEncounter {
		started, err := l.adapter.BattleStarted(ctx)
		if err != nil {
			slog.Debug("battle probe failed", "error", err)
			return
		}
		if !started {
			return
		}
		l.inEncounter = true
		l.counted = false
	}

	names, err := l.adapter.Names(ctx)
	if err != nil {
		slog.Debug("name probe failed", "error", err)
		return
	}

	if len(names) == 0 {
		if l.counted {
			// Battle over; re-arm for the next one.
			l.inEncounter = false
			l.counted = false
		}
		return
	}

	if l.counted {
		return
	}
	l.counted = true

	now := l.now()
	if sameLabels(names, l.lastLabels) && now.Sub(l.lastEmit) < l.cfg.SuppressionWindow() {
		// The same sustained on-screen event; already counted.
		return
	}

	if l.state() != types.StateRunning {
		return
	}

	// Suppression keys off accepted events only; a battle seen while paused
	// must not shadow the next one.
	l.lastLabels = append([]string(nil), names...)
	l.lastEmit = now
	l.emit(types.EncounterEvent{Labels: names, DetectedAt: now})
}

func (l *Loop) emit(ev types.EncounterEvent) {
	select {
	case l.events <- ev:
	default:
		l.dropped.Add(1)
		slog.Warn("event channel full, dropping encounter", "labels", ev.Labels)
	}
}

func sameLabels(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
