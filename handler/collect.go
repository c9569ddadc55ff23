package handler

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	// permDirectory: 0755 = rwxr-xr-x, used for directories created while merging copies
	permDirectory = 0755
)

// CollectFiles lists every regular file below the main directory, then below each copy directory.
// A file reachable from several roots is listed once, under its first path.
func CollectFiles(mainPath string, copyPaths ...string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, root := range append([]string{mainPath}, copyPaths...) {
		found, err := collectFilesRecursive(root)
		if err != nil {
			return nil, err
		}
		for _, path := range found {
			key, err := filepath.Abs(path)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
			}
			if seen[key] {
				slog.Debug("file already collected", "file", path)
				continue
			}
			seen[key] = true
			files = append(files, path)
		}
	}

	slog.Debug("files collected", "count", len(files), "main", mainPath, "copies", copyPaths)
	return files, nil
}

// collectFilesRecursive collects all files from a directory recursively
func collectFilesRecursive(rootDir string) ([]string, error) {
	var files []string

	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.Mode().IsRegular() {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to collect files from %s: %w", rootDir, err)
	}

	return files, nil
}

// MoveFilesToMainDir moves every file left in the copy directories to the same
// relative path below the main directory. Name collisions get a _N suffix.
// Returns the number of moved files.
func MoveFilesToMainDir(fs FileSystem, mainPath string, copyPaths []string) (int, error) {
	moved := 0

	for _, copyPath := range copyPaths {
		files, err := collectFilesRecursive(copyPath)
		if err != nil {
			return moved, err
		}

		for _, file := range files {
			target, err := mainDirTarget(fs, file, mainPath, copyPath)
			if err != nil {
				return moved, err
			}

			if err := fs.MkdirAll(filepath.Dir(target)); err != nil {
				return moved, newFileError("create_folder", filepath.Dir(target), err)
			}
			if err := fs.Rename(file, target); err != nil {
				return moved, newFileError("move_file", file, err)
			}

			slog.Info("file moved", "file", file, "target", target)
			moved++
		}
	}

	return moved, nil
}

// mainDirTarget maps a file of copyPath onto mainPath, unique in the main directory
func mainDirTarget(fs FileSystem, file, mainPath, copyPath string) (string, error) {
	rel, err := filepath.Rel(copyPath, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("file %s is not below %s", file, copyPath)
	}

	target := filepath.Join(mainPath, rel)
	if !fs.Exists(target) {
		return target, nil
	}
	return generateUniqueName(fs, target), nil
}

// generateUniqueName generates a unique filename to avoid conflicts
// Example: photo.jpg -> photo_1.jpg -> photo_2.jpg
func generateUniqueName(fs FileSystem, targetPath string) string {
	dir := filepath.Dir(targetPath)
	base := filepath.Base(targetPath)
	ext := filepath.Ext(base)
	nameWithoutExt := strings.TrimSuffix(base, ext)

	counter := 1
	for {
		newPath := filepath.Join(dir, fmt.Sprintf("%s_%d%s", nameWithoutExt, counter, ext))
		if !fs.Exists(newPath) {
			return newPath
		}
		counter++
	}
}
