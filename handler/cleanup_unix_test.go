//go:build !windows

package handler

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCleanupEmptyDirs_PermissionError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	tmpDir := t.TempDir()
	parent := filepath.Join(tmpDir, "parent")
	emptyDir := filepath.Join(parent, "empty")
	mkdirs(t, emptyDir)

	// no write permission on parent: empty cannot be unlinked
	if err := os.Chmod(parent, 0555); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(parent, 0755)

	result, err := CleanupEmptyDirs(NewOSFileSystem(), tmpDir, CleanupOptions{Force: true})
	if err != nil {
		t.Errorf("CleanupEmptyDirs() error = %v, want nil", err)
	}

	if _, failed := result.FailedDirs[emptyDir]; !failed {
		t.Errorf("FailedDirs = %v, want %s", result.FailedDirs, emptyDir)
	}
	if !fileExists(emptyDir) {
		t.Error("directory was removed despite permission error")
	}
}
