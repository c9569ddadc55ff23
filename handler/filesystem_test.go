package handler

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"
)

func TestOSFileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "file")
	writeFile(t, path, "content")
	fs := NewOSFileSystem()

	if !fs.Exists(path) || fs.Exists(filepath.Join(tmpDir, "missing")) {
		t.Error("Exists() mismatch")
	}

	size, err := fs.Size(path)
	if err != nil || size != 7 {
		t.Errorf("Size() = %d, %v, want 7", size, err)
	}

	if _, err := fs.Size(filepath.Join(tmpDir, "missing")); !isNotExist(err) {
		t.Errorf("Size(missing) error = %v, want not exist", err)
	}

	created, err := fs.CreationTime(path)
	if err != nil {
		t.Fatalf("CreationTime() error = %v", err)
	}
	if created.IsZero() || created.After(time.Now().Add(time.Minute)) {
		t.Errorf("CreationTime() = %v, want a recent time", created)
	}

	r, err := fs.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(r)
	r.Close()
	if string(data) != "content" {
		t.Errorf("Open() read %q", data)
	}

	dir := filepath.Join(tmpDir, "a", "b")
	if err := fs.MkdirAll(dir); err != nil || !fs.Exists(dir) {
		t.Errorf("MkdirAll() error = %v", err)
	}
}

func TestOSFileSystem_RenameRefusesExistingTarget(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	dst := filepath.Join(tmpDir, "dst")
	writeFile(t, src, "src")
	writeFile(t, dst, "dst")
	fs := NewOSFileSystem()

	if err := fs.Rename(src, dst); !errors.Is(err, ErrTargetExists) {
		t.Fatalf("Rename() error = %v, want ErrTargetExists", err)
	}
	if !fs.Exists(src) {
		t.Error("source disappeared after refused rename")
	}

	free := filepath.Join(tmpDir, "free")
	if err := fs.Rename(src, free); err != nil {
		t.Fatalf("Rename() to free name error = %v", err)
	}
	if fs.Exists(src) || !fs.Exists(free) {
		t.Error("Rename() did not move the file")
	}
}
