package corpus

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockPath returns the lock file used while rewriting path
func LockPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".lock")
}

// WithLock runs fn while holding an exclusive lock on the corpus file.
// It fails instead of waiting when another process holds the lock.
func WithLock(path string, fn func() error) error {
	lockPath := LockPath(path)
	lock := flock.New(lockPath)

	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("corpus file %s is locked by another process", path)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lockPath)
	}()

	return fn()
}
