package album

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = "lock"

// Lock acquires the album's advisory lock without blocking. It returns
// ErrLocked when another process holds it. Calls nest: the lock is released
// once Unlock has been called as many times as Lock.
func (a *Album) Lock() error {
	if a.lockDepth > 0 {
		a.lockDepth++
		return nil
	}
	if err := os.MkdirAll(a.StateDir(), 0o755); err != nil {
		return &PersistenceError{Op: "create state dir", Path: a.StateDir(), Err: err}
	}
	if a.lock == nil {
		a.lock = flock.New(filepath.Join(a.StateDir(), lockFileName))
	}
	ok, err := a.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire album lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLocked, a.path)
	}
	a.lockDepth = 1
	return nil
}

// Unlock releases one level of the album lock.
func (a *Album) Unlock() error {
	if a.lockDepth == 0 {
		return nil
	}
	a.lockDepth--
	if a.lockDepth > 0 {
		return nil
	}
	if err := a.lock.Unlock(); err != nil {
		return fmt.Errorf("release album lock: %w", err)
	}
	return nil
}

func (a *Album) withLock(fn func() error) (err error) {
	if err := a.Lock(); err != nil {
		return err
	}
	defer func() {
		if unlockErr := a.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}()
	return fn()
}
