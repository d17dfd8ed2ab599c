package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// AtomicFile buffers writes in a temp file next to the destination and
// renames it into place on Commit.
type AtomicFile struct {
	file *os.File
	path string
	done bool
}

// CreateAtomic opens a temp file in the directory of path. Parent directories
// are created as needed.
func CreateAtomic(path string) (*AtomicFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp output in %s: %w", dir, err)
	}
	return &AtomicFile{file: tmp, path: path}, nil
}

// Write implements io.Writer.
func (a *AtomicFile) Write(p []byte) (int, error) {
	if a.done {
		return 0, errors.New("write to finished output")
	}
	return a.file.Write(p)
}

// Path reports the final destination.
func (a *AtomicFile) Path() string { return a.path }

// Commit flushes the temp file to disk and renames it over the destination.
func (a *AtomicFile) Commit() error {
	if a.done {
		return errors.New("output already finished")
	}
	a.done = true
	tmpName := a.file.Name()
	if err := a.file.Sync(); err != nil {
		_ = a.file.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync %s: %w", a.path, err)
	}
	if err := a.file.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", a.path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", a.path, err)
	}
	if err := os.Rename(tmpName, a.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename into %s: %w", a.path, err)
	}
	return nil
}

// Abort discards the temp file. It is a no-op after Commit, so callers can
// defer it unconditionally.
func (a *AtomicFile) Abort() {
	if a == nil || a.done {
		return
	}
	a.done = true
	_ = a.file.Close()
	_ = os.Remove(a.file.Name())
}
