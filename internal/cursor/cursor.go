// Package cursor loads and persists the sidecar state file that lets a
// probe invocation resume from where the previous one left off (§4.3).
package cursor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/gofrs/flock"

	"github.com/nrpe-tools/logmonitor/internal/logging"
)

// Cursor is the persisted progress marker for one target log.
type Cursor struct {
	Offset   int64  `json:"offset"`
	Checksum string `json:"checksum"`
}

// Store loads and saves Cursors under a single cache directory, one sidecar
// file per target log. The sidecar name is derived from an xxhash of the
// target string as given so distinct targets never collide (§4.11).
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir. dir must already exist.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// sidecarPath returns the deterministic sidecar path for target.
func (s *Store) sidecarPath(target string) string {
	sum := xxhash.Sum64String(target)
	return filepath.Join(s.dir, fmt.Sprintf("%016x.logmonitor.json", sum))
}

// Load reads the sidecar for target. A missing or malformed sidecar is
// treated as "no prior cursor" rather than an error, per §4.3 and §7
// (SidecarUnreadable): the run proceeds as if this target were first-seen.
func (s *Store) Load(target string) (cur Cursor, found bool) {
	path := s.sidecarPath(target)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.L.Warn("cursor: could not read %s: %v, treating as absent", path, err)
		}
		return Cursor{}, false
	}

	var persisted struct {
		Offset   int64  `json:"offset"`
		Checksum string `json:"checksum"`
	}
	if err := json.Unmarshal(data, &persisted); err != nil {
		logging.L.Warn("cursor: malformed sidecar %s: %v, treating as absent", path, err)
		return Cursor{}, false
	}
	return Cursor{Offset: persisted.Offset, Checksum: persisted.Checksum}, true
}

// Save atomically persists cur for target: write-temp-then-rename within
// the same directory, so a crash mid-write never leaves a corrupt sidecar
// (§4.3, §5).
func (s *Store) Save(target string, cur Cursor) error {
	path := s.sidecarPath(target)
	data, err := json.Marshal(cur)
	if err != nil {
		return fmt.Errorf("cursor: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".logmonitor-cursor-*")
	if err != nil {
		return fmt.Errorf("cursor: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("cursor: write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("cursor: sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cursor: close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("cursor: rename %s to %s: %w", tmpPath, path, err)
	}
	return nil
}

// Delete removes the sidecar for target, if any.
func (s *Store) Delete(target string) error {
	path := s.sidecarPath(target)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cursor: remove %s: %w", path, err)
	}
	return nil
}

// Lock acquires a non-blocking advisory lock on target's sidecar path for
// the duration of a run (§5). It returns ErrLocked if another probe
// invocation already holds it — the caller should surface this as
// UNKNOWN (exit 3) rather than risk a racing write to the same sidecar.
func (s *Store) Lock(target string) (unlock func(), err error) {
	lockPath := s.sidecarPath(target) + ".lock"
	fl := flock.New(lockPath)

	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("cursor: lock %s: %w", lockPath, err)
	}
	if !locked {
		return nil, ErrLocked
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			logging.L.Warn("cursor: unlock %s: %v", lockPath, err)
		}
	}, nil
}

// Fingerprint computes the head fingerprint of head: an xxhash digest of all
// of it, hex-encoded (§9). The caller decides how many leading bytes of the
// log head holds.
func Fingerprint(head []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(head))
}

// ErrLocked is returned by Lock when another probe invocation currently
// holds the sidecar lock for the same target (§5, §7 LockContention).
var ErrLocked = lockedError{}

type lockedError struct{}

func (lockedError) Error() string { return "cursor: sidecar is locked by another invocation" }
