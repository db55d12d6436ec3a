// Package lockfile guards a run with an advisory file lock. One engine
// process at a time: the lock is taken before planning and released on
// every exit path, including failures.
package lockfile

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/arthur-debert/owl/pkg/errors"
	"github.com/arthur-debert/owl/pkg/logging"
)

// Lock is a held advisory lock.
type Lock struct {
	flock *flock.Flock
}

// Acquire takes the lock without blocking. A second engine instance fails
// immediately rather than queueing behind the first.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create lock directory for %s", path)
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrLockHeld, "failed to acquire lock %s", path)
	}
	if !ok {
		return nil, errors.Newf(errors.ErrLockHeld, "another owl instance holds %s", path)
	}

	logger := logging.GetLogger("lockfile")
	logger.Debug().Str("path", path).Msg("Lock acquired")
	return &Lock{flock: fl}, nil
}

// Release drops the lock. Safe to call more than once.
func (l *Lock) Release() {
	if l == nil || l.flock == nil {
		return
	}
	if err := l.flock.Unlock(); err != nil {
		logger := logging.GetLogger("lockfile")
		logger.Warn().Err(err).Str("path", l.flock.Path()).Msg("Failed to release lock")
	}
	l.flock = nil
}
