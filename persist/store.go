// Package persist owns the on-disk save log and the shunt archive.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shuntapp/shunt/ledger"
)

const (
	saveFileName   = "save.json"
	backupFileName = "save.json.bak"
)

// ErrCorruptRecord marks a save log whose tail record could not be parsed.
// Load recovers by falling back to the backup; this error only surfaces when
// no usable record remains.
var ErrCorruptRecord = errors.New("save log record corrupt")

// Record is the durable representation of a session at a point in time.
// Crashed is set on records written by the crash path so the next startup
// can warn about the unclean shutdown.
type Record struct {
	State   ledger.State `json:"state"`
	Crashed bool         `json:"crashed"`
	SavedAt time.Time    `json:"saved_at"`
}

// Store performs batched, atomic writes of the save log. The save file is
// exclusively owned by the store; no other component opens it. The mutex
// serializes the crash-path flush against the owner goroutine's threshold
// flush so the rotate/commit renames never interleave.
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore creates a store rooted at dir. The directory must exist and be
// writable; failing that is a startup error, not a runtime one.
func NewStore(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat save dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("save path %s is not a directory", dir)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) savePath() string   { return filepath.Join(s.dir, saveFileName) }
func (s *Store) backupPath() string { return filepath.Join(s.dir, backupFileName) }

// Flush durably writes the record. Write-to-temp-then-rename keeps the save
// file consistent from a reader's perspective. The previous good file is
// rotated to the backup only after the temp file is durable, so a failed
// flush always leaves at least one intact record behind.
func (s *Store) Flush(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal save record: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, saveFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp save file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write save record: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync save record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close save record: %w", err)
	}

	if _, err := os.Stat(s.savePath()); err == nil {
		if err := os.Rename(s.savePath(), s.backupPath()); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("rotate save backup: %w", err)
		}
	}

	if err := os.Rename(tmpPath, s.savePath()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("commit save record: %w", err)
	}
	return nil
}

// Load reads the most recent valid record. A missing or torn primary falls
// back to the backup with a logged warning; only when neither file holds a
// usable record does Load yield a zero record rather than failing startup.
func (s *Store) Load() (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.readRecord(s.savePath())
	if err == nil {
		return rec, nil
	}
	if !os.IsNotExist(err) {
		slog.Warn("save log unreadable, trying backup", "error", err)
	}

	rec, bakErr := s.readRecord(s.backupPath())
	if bakErr == nil {
		slog.Warn("recovered from backup record, newest progress lost", "saved_at", rec.SavedAt)
		return rec, nil
	}
	if os.IsNotExist(err) && os.IsNotExist(bakErr) {
		// Fresh install, nothing to recover.
		return Record{}, nil
	}
	if os.IsNotExist(bakErr) {
		// Only a torn primary exists. Progress is gone; starting empty beats
		// refusing to start.
		slog.Warn("no backup record, starting with an empty ledger")
		return Record{}, nil
	}
	return Record{}, fmt.Errorf("%w: %v", ErrCorruptRecord, bakErr)
}

// readRecord parses one save file, accepting the legacy bare-state format
// (a ledger state without the record envelope) and upgrading it.
func (s *Store) readRecord(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err == nil && rec.State.Counts != nil {
		return rec, nil
	}

	var legacy ledger.State
	if err := json.Unmarshal(data, &legacy); err == nil && legacy.Counts != nil {
		slog.Warn("migrating legacy save format", "path", path)
		return Record{State: legacy, SavedAt: time.Now()}, nil
	}

	return Record{}, fmt.Errorf("parse %s: %w", filepath.Base(path), ErrCorruptRecord)
}
