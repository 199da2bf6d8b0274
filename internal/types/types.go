// Package types provides shared type definitions for the application.
package types

import "time"

// ControlState is the lifecycle state of the counting session.
type ControlState string

const (
	StateStopped ControlState = "stopped"
	StateRunning ControlState = "running"
	StatePaused  ControlState = "paused"
)

// Command is a user action sent from the UI (or a hotkey) to the core.
type Command string

const (
	CmdStart  Command = "start"
	CmdPause  Command = "pause"
	CmdResume Command = "resume"
	CmdReset  Command = "reset"
	CmdQuit   Command = "quit"
)

// EncounterEvent is one recognized on-screen encounter. Immutable once
// created; a single event may carry several labels (horde encounters).
type EncounterEvent struct {
	Labels     []string  `json:"labels"`
	DetectedAt time.Time `json:"detectedAt"`
}

// LabelCount is one row of the per-label tally, used for sorted views.
type LabelCount struct {
	Label string `json:"label"`
	Count uint64 `json:"count"`
}

// Snapshot is an immutable copy of the session ledger for rendering.
type Snapshot struct {
	SessionID  string            `json:"sessionId"`
	Counts     map[string]uint64 `json:"counts"`
	Sorted     []LabelCount      `json:"sorted"` // counts sorted descending
	Total      uint64            `json:"total"`
	LastLabels []string          `json:"lastLabels"`
	StartedAt  time.Time         `json:"startedAt"`
	State      ControlState      `json:"state"`
}

// StatusUpdate is a passive status indicator for the UI. Transient problems
// (failed flush, missing game process) surface here, never as dialogs.
type StatusUpdate struct {
	Level       string `json:"level"` // "info", "warn"
	Message     string `json:"message"`
	GamePresent bool   `json:"gamePresent"`
	Dropped     uint64 `json:"dropped"` // events dropped on channel overflow
}

// ShuntSummary describes one archived counting session.
type ShuntSummary struct {
	SessionID  string    `json:"sessionId"`
	Total      uint64    `json:"total"`
	TopLabel   string    `json:"topLabel"`
	StartedAt  time.Time `json:"startedAt"`
	ArchivedAt time.Time `json:"archivedAt"`
}
