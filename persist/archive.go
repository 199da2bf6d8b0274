package persist

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/shuntapp/shunt/internal/types"
)

var archivePrefix = []byte("shunt/")

// Archive stores finished shunts so history survives resets. Badger keeps it
// cheap to append and scan without holding everything in memory.
type Archive struct {
	db *badger.DB
}

type archivedShunt struct {
	Record     Record    `json:"record"`
	ArchivedAt time.Time `json:"archived_at"`
}

// OpenArchive opens (or creates) the archive at path.
func OpenArchive(path string) (*Archive, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close releases the underlying store.
func (a *Archive) Close() error {
	return a.db.Close()
}

// ArchiveShunt appends a finished session to the archive. Sessions with no
// encounters are skipped; there is nothing worth keeping.
func (a *Archive) ArchiveShunt(rec Record) error {
	if rec.State.Total == 0 {
		return nil
	}

	entry := archivedShunt{Record: rec, ArchivedAt: time.Now()}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal archived shunt: %w", err)
	}

	key := append(archivePrefix, []byte(rec.State.ID)...)
	err = a.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("archive shunt %s: %w", rec.State.ID, err)
	}
	return nil
}

// ListShunts returns summaries of all archived sessions, newest first.
func (a *Archive) ListShunts() ([]types.ShuntSummary, error) {
	var out []types.ShuntSummary

	err := a.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(archivePrefix); it.ValidForPrefix(archivePrefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var entry archivedShunt
				if err := json.Unmarshal(val, &entry); err != nil {
					return err
				}
				out = append(out, summarize(entry))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list shunts: %w", err)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ArchivedAt.After(out[j].ArchivedAt)
	})
	return out, nil
}

func summarize(entry archivedShunt) types.ShuntSummary {
	var topLabel string
	var topCount uint64
	for label, n := range entry.Record.State.Counts {
		if n > topCount || (n == topCount && (topLabel == "" || label < topLabel)) {
			topLabel = label
			topCount = n
		}
	}
	return types.ShuntSummary{
		SessionID:  entry.Record.State.ID,
		Total:      entry.Record.State.Total,
		TopLabel:   topLabel,
		StartedAt:  entry.Record.State.StartedAt,
		ArchivedAt: entry.ArchivedAt,
	}
}
