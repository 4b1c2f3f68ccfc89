package repo

import (
	"fmt"
	"os"
	"path/filepath"
)

// IndexLock is the advisory lock guarding index read-modify-write spans.
// The lock file is created exclusively; if it already exists another
// process is mutating the index and the caller gets ErrIndexLocked. Stale
// locks are never broken automatically.
type IndexLock struct {
	path string
}

// LockIndex acquires the index lock for the repository.
func (r *Repo) LockIndex() (*IndexLock, error) {
	path := filepath.Join(r.GitDir, "index.lock")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("lock index: %w (%s exists)", ErrIndexLocked, path)
		}
		return nil, fmt.Errorf("lock index: %w", err)
	}
	f.Close()
	return &IndexLock{path: path}, nil
}

// Unlock releases the lock. Safe to call on an already-released lock.
func (l *IndexLock) Unlock() error {
	if l == nil || l.path == "" {
		return nil
	}
	path := l.path
	l.path = ""
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unlock index: %w", err)
	}
	return nil
}
