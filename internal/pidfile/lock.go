package pidfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 100 * time.Millisecond

// ErrLockTimeout indicates another invocation held the pid file lock for the
// whole wait period.
var ErrLockTimeout = errors.New("pid file is locked by another ahn invocation")

// ErrLockUnavailable indicates the lock file could not be opened or locked,
// for example because the pid file's directory is read-only.
var ErrLockUnavailable = errors.New("pid file lock unavailable")

// Lock is a held advisory lock beside a pid file.
type Lock struct {
	lock *flock.Flock
}

// LockPath returns the lock file used for a pid file.
func LockPath(pidPath string) string {
	return pidPath + ".lock"
}

// Acquire takes the advisory lock for pidPath, waiting up to wait. When the
// pid file's directory does not exist there is nothing to protect and an
// inert lock is returned.
func Acquire(ctx context.Context, pidPath string, wait time.Duration) (*Lock, error) {
	if _, err := os.Stat(filepath.Dir(pidPath)); errors.Is(err, fs.ErrNotExist) {
		return &Lock{}, nil
	}

	fl := flock.New(LockPath(pidPath))
	lockCtx := ctx
	if wait > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, wait)
		defer cancel()
	}

	ok, err := fl.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w (%s)", ErrLockTimeout, fl.Path())
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquire pid file lock: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: %w", ErrLockUnavailable, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLockTimeout, fl.Path())
	}
	return &Lock{lock: fl}, nil
}

// Release drops the lock. The lock file itself is left in place; removing it
// would let a waiter lock an unlinked inode.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release pid file lock: %w", err)
	}
	return nil
}
