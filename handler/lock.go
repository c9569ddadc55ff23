package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// RunLock keeps two runs from cleaning the same main directory at once
type RunLock struct {
	lock *flock.Flock
}

// lockPath lives outside the cleaned tree so the lock file is never collected
func lockPath(mainPath string) (string, error) {
	abs, err := filepath.Abs(mainPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", mainPath, err)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(os.TempDir(), "fileclean-"+hex.EncodeToString(sum[:8])+".lock"), nil
}

// AcquireRunLock takes the lock of mainPath without waiting.
// ErrLocked is returned when another run holds it.
func AcquireRunLock(mainPath string) (*RunLock, error) {
	path, err := lockPath(mainPath)
	if err != nil {
		return nil, err
	}

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, mainPath)
	}

	slog.Debug("run lock acquired", "main", mainPath, "lock", path)
	return &RunLock{lock: lock}, nil
}

// Release frees the lock
func (l *RunLock) Release() error {
	return l.lock.Unlock()
}
