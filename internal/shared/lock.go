package shared

import (
	"fmt"

	"github.com/gofrs/flock"
)

// AcquireRunLock takes an exclusive, non-blocking file lock at path. The caller must Unlock the
// returned lock when the run finishes. [ErrRunInProgress] is returned when another process holds it.
func AcquireRunLock(path string) (*flock.Flock, error) {
	if err := EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s is held", ErrRunInProgress, path)
	}
	return lock, nil
}
