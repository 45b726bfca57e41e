// Package fsx abstracts the file store used for uploaded documents so the
// services do not care whether files live on local disk or in S3.
package fsx

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// FileSystem is the storage port. Paths are relative to the store root and
// use forward slashes regardless of backend.
type FileSystem interface {
	// Join builds a store path from segments.
	Join(parts ...string) string

	// WriteFile stores data at path, creating parent directories as needed.
	WriteFile(ctx context.Context, path string, data []byte) error

	// WriteFileStream stores the reader's content at path.
	WriteFileStream(ctx context.Context, path string, r io.Reader) error

	// ReadFileStream opens path for reading. Caller closes.
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether path is present.
	Exists(ctx context.Context, path string) (bool, error)

	// DeleteFile removes path. Deleting a missing file is not an error.
	DeleteFile(ctx context.Context, path string) error
}

// LocalFileSystem stores files under a root directory on local disk.
type LocalFileSystem struct {
	root string
}

func NewLocalFileSystem(root string) *LocalFileSystem {
	return &LocalFileSystem{root: root}
}

func (fs *LocalFileSystem) Join(parts ...string) string {
	return filepath.ToSlash(filepath.Join(parts...))
}

func (fs *LocalFileSystem) abs(path string) string {
	return filepath.Join(fs.root, filepath.FromSlash(path))
}

func (fs *LocalFileSystem) WriteFile(ctx context.Context, path string, data []byte) error {
	full := fs.abs(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func (fs *LocalFileSystem) WriteFileStream(ctx context.Context, path string, r io.Reader) error {
	full := fs.abs(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, r)
	return err
}

func (fs *LocalFileSystem) ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error) {
	return os.Open(fs.abs(path))
}

func (fs *LocalFileSystem) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(fs.abs(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (fs *LocalFileSystem) DeleteFile(ctx context.Context, path string) error {
	err := os.Remove(fs.abs(path))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// AbsolutePath resolves a store path to a local filesystem path. The mailer
// attaches files by path, which only works with the local backend.
func (fs *LocalFileSystem) AbsolutePath(path string) string {
	return fs.abs(path)
}
