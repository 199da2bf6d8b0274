// Package config handles application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	appName        = "shunt"
	configFileName = "config.json"
)

// Detector holds the tuning knobs for the polling loop. All durations are
// expressed in milliseconds so the config file stays editable by hand.
type Detector struct {
	PollFloorMs         int `json:"poll_floor_ms"`
	PollCeilingMs       int `json:"poll_ceiling_ms"`
	AdjustStepMs        int `json:"adjust_step_ms"`
	TargetCycleMs       int `json:"target_cycle_ms"`
	HysteresisCycles    int `json:"hysteresis_cycles"`
	SuppressionWindowMs int `json:"suppression_window_ms"`
	EventBuffer         int `json:"event_buffer"`
	IdleIntervalMs      int `json:"idle_interval_ms"` // used while the game process is absent
}

// Region is a capture rectangle expressed as window-relative ratios.
type Region struct {
	X0 float64 `json:"x0"`
	X1 float64 `json:"x1"`
	Y0 float64 `json:"y0"`
	Y1 float64 `json:"y1"`
}

// Config represents the application configuration.
type Config struct {
	Detector       Detector `json:"detector"`
	FlushThreshold int      `json:"flush_threshold"`
	GameNames      []string `json:"game_names"`
	DialogueRegion Region   `json:"dialogue_region"`
	HeadlineRegion Region   `json:"headline_region"`
	Debug          bool     `json:"debug"` // keep captured PNGs for inspection

	// Legacy field (deprecated, kept for migration from pre-1.0 configs
	// that carried a single flat save interval)
	SaveEvery int `json:"save_every,omitempty"`
}

// Load loads configuration from the config file.
// Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("get config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.migrateLegacy()
	cfg.applyDefaults()
	return &cfg, nil
}

// Save persists the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return fmt.Errorf("get config path: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// DataDir returns the directory holding the save log and the shunt archive,
// creating it if needed.
func DataDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	path := filepath.Join(dir, appName)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return path, nil
}

// Duration helpers so callers never convert milliseconds by hand.

func (d Detector) PollFloor() time.Duration         { return time.Duration(d.PollFloorMs) * time.Millisecond }
func (d Detector) PollCeiling() time.Duration       { return time.Duration(d.PollCeilingMs) * time.Millisecond }
func (d Detector) AdjustStep() time.Duration        { return time.Duration(d.AdjustStepMs) * time.Millisecond }
func (d Detector) TargetCycle() time.Duration       { return time.Duration(d.TargetCycleMs) * time.Millisecond }
func (d Detector) SuppressionWindow() time.Duration { return time.Duration(d.SuppressionWindowMs) * time.Millisecond }
func (d Detector) IdleInterval() time.Duration      { return time.Duration(d.IdleIntervalMs) * time.Millisecond }

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Detector: Detector{
			PollFloorMs:         75,
			PollCeilingMs:       1000,
			AdjustStepMs:        25,
			TargetCycleMs:       200,
			HysteresisCycles:    3,
			SuppressionWindowMs: 1500,
			EventBuffer:         64,
			IdleIntervalMs:      2000,
		},
		FlushThreshold: 5,
		GameNames:      []string{"pokemmo", "java"},
		// Dialogue strip where "A wild ..." appears, and the headline strip
		// where names with level markers appear.
		DialogueRegion: Region{X0: 0.06, X1: 0.70, Y0: 0.60, Y1: 0.78},
		HeadlineRegion: Region{X0: 0.06, X1: 0.94, Y0: 0.06, Y1: 0.30},
	}
}

// applyDefaults fills zero values so a sparse hand-edited file still works.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Detector.PollFloorMs <= 0 {
		c.Detector.PollFloorMs = def.Detector.PollFloorMs
	}
	if c.Detector.PollCeilingMs <= 0 {
		c.Detector.PollCeilingMs = def.Detector.PollCeilingMs
	}
	if c.Detector.PollCeilingMs < c.Detector.PollFloorMs {
		c.Detector.PollCeilingMs = c.Detector.PollFloorMs
	}
	if c.Detector.AdjustStepMs <= 0 {
		c.Detector.AdjustStepMs = def.Detector.AdjustStepMs
	}
	if c.Detector.TargetCycleMs <= 0 {
		c.Detector.TargetCycleMs = def.Detector.TargetCycleMs
	}
	if c.Detector.HysteresisCycles <= 0 {
		c.Detector.HysteresisCycles = def.Detector.HysteresisCycles
	}
	if c.Detector.SuppressionWindowMs <= 0 {
		c.Detector.SuppressionWindowMs = def.Detector.SuppressionWindowMs
	}
	if c.Detector.EventBuffer <= 0 {
		c.Detector.EventBuffer = def.Detector.EventBuffer
	}
	if c.Detector.IdleIntervalMs <= 0 {
		c.Detector.IdleIntervalMs = def.Detector.IdleIntervalMs
	}
	if c.FlushThreshold <= 0 {
		c.FlushThreshold = def.FlushThreshold
	}
	if len(c.GameNames) == 0 {
		c.GameNames = def.GameNames
	}
	if c.DialogueRegion == (Region{}) {
		c.DialogueRegion = def.DialogueRegion
	}
	if c.HeadlineRegion == (Region{}) {
		c.HeadlineRegion = def.HeadlineRegion
	}
}

// migrateLegacy converts pre-1.0 fields to the current layout.
func (c *Config) migrateLegacy() {
	if c.SaveEvery > 0 && c.FlushThreshold == 0 {
		c.FlushThreshold = c.SaveEvery
	}
	c.SaveEvery = 0
}

func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}
