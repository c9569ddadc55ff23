package handler

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"
)

// FileSystem is the set of filesystem primitives the cleanup passes rely on.
// Every call is blocking; none is retried.
type FileSystem interface {
	Size(path string) (int64, error)
	Exists(path string) bool
	Mode(path string) (os.FileMode, error)
	CreationTime(path string) (time.Time, error)
	Open(path string) (io.ReadSeekCloser, error)
	Remove(path string) error
	Rename(oldPath, newPath string) error
	Chmod(path string, mode os.FileMode) error
	MkdirAll(path string) error
}

// osFileSystem implements FileSystem on the local disk
type osFileSystem struct{}

// NewOSFileSystem returns the local disk implementation of FileSystem
func NewOSFileSystem() FileSystem {
	return osFileSystem{}
}

func (osFileSystem) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (osFileSystem) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func (osFileSystem) Mode(path string) (os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Mode(), nil
}

func (osFileSystem) CreationTime(path string) (time.Time, error) {
	return creationTime(path)
}

func (osFileSystem) Open(path string) (io.ReadSeekCloser, error) {
	return os.Open(path)
}

func (osFileSystem) Remove(path string) error {
	return os.Remove(path)
}

// Rename refuses to replace an existing target, os.Rename would overwrite it silently
func (osFileSystem) Rename(oldPath, newPath string) error {
	if _, err := os.Lstat(newPath); err == nil {
		return fmt.Errorf("rename %s to %s: %w", oldPath, newPath, ErrTargetExists)
	}
	return os.Rename(oldPath, newPath)
}

func (osFileSystem) Chmod(path string, mode os.FileMode) error {
	return os.Chmod(path, mode)
}

func (osFileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, permDirectory)
}

// isNotExist reports whether err means the file vanished
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func isPermissionError(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}
