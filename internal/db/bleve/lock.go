package bleve

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"

	"github.com/kailas-cloud/textdex/internal/db"
)

// LockFileName is the writer lock file kept in the index directory.
const LockFileName = "write.lock"

// DefaultLockTimeout bounds the wait for a live writer to release the lock.
const DefaultLockTimeout = 5 * time.Second

const lockRetryDelay = 25 * time.Millisecond

// writeLock is a cross-process advisory lock backed by a file. The holder
// writes its PID into the file and truncates it on release; the file itself
// is never removed, so every process locks the same inode. A non-empty lock
// file that can be acquired was left behind by a dead writer.
type writeLock struct {
	path    string
	timeout time.Duration
}

func newWriteLock(dir string, timeout time.Duration) *writeLock {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	return &writeLock{path: filepath.Join(dir, LockFileName), timeout: timeout}
}

// present reports whether the lock file names an owner.
func (l *writeLock) present() (bool, error) {
	info, err := os.Stat(l.path)
	if err == nil {
		return info.Size() > 0, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &db.Error{Op: db.OpLock, Err: err}
}

// clearStale resets a lock file nobody holds.
func (l *writeLock) clearStale() error {
	ok, err := l.present()
	if err != nil || !ok {
		return err
	}
	fl := flock.New(l.path)
	acquired, err := fl.TryLock()
	if err != nil {
		return &db.Error{Op: db.OpUnlock, Err: err}
	}
	if !acquired {
		return &db.Error{Op: db.OpUnlock, Err: db.ErrLockHeld}
	}
	return l.release(fl)
}

// acquire waits up to the lock timeout for the lock and records the owner PID.
func (l *writeLock) acquire(ctx context.Context) (*flock.Flock, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	fl := flock.New(l.path)
	acquired, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, &db.Error{Op: db.OpLock, Err: err}
	}
	if !acquired {
		return nil, &db.Error{Op: db.OpLock, Err: fmt.Errorf("%w: %s", db.ErrLockHeld, l.path)}
	}
	if err := os.WriteFile(l.path, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		_ = fl.Unlock()
		return nil, &db.Error{Op: db.OpLock, Err: err}
	}
	return fl, nil
}

// release clears the owner PID while still holding the lock, then unlocks.
func (l *writeLock) release(fl *flock.Flock) error {
	truncErr := os.Truncate(l.path, 0)
	if errors.Is(truncErr, fs.ErrNotExist) {
		truncErr = nil
	}
	if err := fl.Unlock(); err != nil {
		return &db.Error{Op: db.OpUnlock, Err: err}
	}
	if truncErr != nil {
		return &db.Error{Op: db.OpUnlock, Err: truncErr}
	}
	return nil
}
