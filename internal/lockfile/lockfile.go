package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// Lock is a held exclusive file lock.
type Lock struct {
	file *os.File
}

// ErrAlreadyLocked is returned when another process holds the lock.
var ErrAlreadyLocked = fmt.Errorf("lock file is held by another process")

// Acquire takes a non-blocking exclusive flock on path, creating the file
// if needed. The cycle's read-decide-write sequence on the ledger is not
// atomic, so overlapping runs must be excluded; scheduled invocations
// take this lock for the whole cycle.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file '%s': %w", path, err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		file.Close()
		if err == syscall.EWOULDBLOCK {
			return nil, fmt.Errorf("'%s': %w", path, ErrAlreadyLocked)
		}
		return nil, fmt.Errorf("failed to lock '%s': %w", path, err)
	}

	return &Lock{file: file}, nil
}

// Release drops the lock and closes the file.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}
	err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("failed to unlock: %w", err)
	}
	return closeErr
}
