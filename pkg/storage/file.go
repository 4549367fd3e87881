package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// File stores the snapshot as a single file on disk.
// Parent directories are created on the first write.
type File struct {
	path string
}

// NewFile creates a file backend for the given path.
// The file is not created until the first Store call; a missing file
// reads as ErrNotFound.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the snapshot file path.
func (f *File) Path() string { return f.path }

// Load reads the snapshot file.
func (f *File) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return data, nil
}

// Store writes the snapshot file, creating parent directories as needed.
// The write is not atomic: a crash mid-write leaves a truncated file.
func (f *File) Store(ctx context.Context, data []byte) error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}

// Close does nothing for the file backend.
func (f *File) Close() error { return nil }

// Ensure File implements Backend.
var _ Backend = (*File)(nil)
