package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/mesh-intelligence/movielist/pkg/types"
)

// LockFileName is created in the data directory while a session runs.
const LockFileName = ".movielist.lock"

// Lock is an advisory lock on a data directory.
type Lock struct {
	path string
	fl   *flock.Flock
}

// AcquireLock takes the data directory lock without blocking. It returns
// ErrSessionLocked when another session holds it.
func AcquireLock(dataDir string) (*Lock, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, types.NewStorageError("create data dir", dataDir, err)
	}
	path := filepath.Join(dataDir, LockFileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrSessionLocked, path)
	}
	return &Lock{path: path, fl: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks the data directory.
func (l *Lock) Release() error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
