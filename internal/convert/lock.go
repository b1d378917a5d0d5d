package convert

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"m4bforge/internal/config"
)

// RunLock prevents two runners from draining the same queue at once.
type RunLock struct {
	path string
	lock *flock.Flock
}

// NewRunLock builds a lock rooted in the log directory.
func NewRunLock(cfg *config.Config) *RunLock {
	path := filepath.Join(cfg.Paths.LogDir, "m4bforge.lock")
	return &RunLock{path: path, lock: flock.New(path)}
}

// Acquire takes the lock without blocking.
func (l *RunLock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return errors.New("another conversion run is already in progress")
	}
	return nil
}

// Release drops the lock.
func (l *RunLock) Release() error {
	return l.lock.Unlock()
}

// Path returns the lock file location.
func (l *RunLock) Path() string {
	return l.path
}
