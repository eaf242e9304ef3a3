package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/voxdrop/voxdrop/internal/common"
	"github.com/voxdrop/voxdrop/internal/filex"
)

// encodeSnapshot serializes the full account map as pretty-printed JSON
// keyed by canonical username, so the durable file stays human-diffable.
func encodeSnapshot(accounts map[string]*AccountRecord) ([]byte, error) {
	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// loadSnapshot reads the durable file into a fresh account map. A missing
// file is an empty store; an unreadable or unparsable file is fatal and
// surfaces common.ErrStoreCorrupt — silently discarding it would destroy
// previously acknowledged data.
func loadSnapshot(path string) (map[string]*AccountRecord, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]*AccountRecord), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	accounts := make(map[string]*AccountRecord)
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrStoreCorrupt, path, err)
	}
	for key, acct := range accounts {
		acct.Username = key
	}
	return accounts, nil
}

// snapshotWriter owns the durable file. Snapshots carry a monotonically
// increasing sequence; a write whose sequence is older than the last one
// that reached the file is skipped, so a stalled writer that wakes up after
// its mutation already failed can never clobber fresher durable state.
type snapshotWriter struct {
	path string

	mu   sync.Mutex
	last uint64
}

func (w *snapshotWriter) write(seq uint64, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if seq <= w.last {
		return nil
	}

	tmp := fmt.Sprintf("%s.tmp.%d", w.path, seq)
	if err := filex.WriteFileAtomic(w.path, tmp, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	w.last = seq
	return nil
}
