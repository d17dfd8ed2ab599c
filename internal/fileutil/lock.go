package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrOutputLocked reports that another run holds the lock for an output path.
var ErrOutputLocked = errors.New("output is locked by another run")

// OutputLock is an advisory lock on "<path>.lock".
type OutputLock struct {
	lock *flock.Flock
}

// LockOutput acquires the lock for path without blocking. The parent
// directory is created when missing.
func LockOutput(path string) (*OutputLock, error) {
	lockPath := path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", lockPath, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, lockPath)
	}
	return &OutputLock{lock: lock}, nil
}

// Path returns the lock file path.
func (l *OutputLock) Path() string {
	if l == nil || l.lock == nil {
		return ""
	}
	return l.lock.Path()
}

// Release unlocks. The lock file is left in place.
func (l *OutputLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
