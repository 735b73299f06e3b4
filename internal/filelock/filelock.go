// Package filelock serializes access to shared state files across opener
// processes using advisory flock(2) locks.
package filelock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// retryDelay is how often LockContext polls a held lock.
const retryDelay = 50 * time.Millisecond

// FileLock wraps a flock file lock guarding a sibling file.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a lock for target. The lock file lives next to it
// with a ".lock" suffix, e.g. "history.db" uses "history.db.lock".
func NewFileLock(target string) *FileLock {
	path := target + ".lock"
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// LockContext acquires the exclusive lock, giving up when ctx is done.
func (fl *FileLock) LockContext(ctx context.Context) error {
	if err := fl.ensureDir(); err != nil {
		return err
	}
	locked, err := fl.flock.TryLockContext(ctx, retryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, ctx.Err())
	}
	return nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// WithLock runs fn while holding the lock for target.
func WithLock(ctx context.Context, target string, fn func() error) error {
	lock := NewFileLock(target)
	if err := lock.LockContext(ctx); err != nil {
		return err
	}
	defer lock.Unlock()

	return fn()
}

func (fl *FileLock) ensureDir() error {
	dir := filepath.Dir(fl.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
