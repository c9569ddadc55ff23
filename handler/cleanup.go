package handler

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// System files that never count as content
var systemJunk = []string{
	".DS_Store",   // macOS
	"._.DS_Store", // macOS AppleDouble
	"Thumbs.db",   // Windows
	"desktop.ini", // Windows
}

// DefaultProtectedDirs are the directory names a cleanup never enters nor removes
var DefaultProtectedDirs = []string{".git", ".svn", ".hg"}

const maxDirsListed = 10

// CleanupOptions tunes an empty directory cleanup
type CleanupOptions struct {
	Force     bool     // remove without asking
	Prompter  Prompter // asked once before anything is removed, unless Force
	Ignored   []string // file names counted as junk, on top of the system ones
	Protected []string // directory names matched on the last path element
}

// CleanupResult contains the outcome of an empty directory cleanup
type CleanupResult struct {
	RemovedDirs []string
	FailedDirs  map[string]error
}

// cleanupPlan is the set of directories found removable below a root
type cleanupPlan struct {
	dirs []string            // deepest first
	junk map[string][]string // junk files to delete before each directory
}

// CleanupEmptyDirs removes the directories below rootPath that hold nothing but junk
// files and other removable directories. rootPath itself is kept.
// Removals go through fs, deepest directory first.
func CleanupEmptyDirs(fs FileSystem, rootPath string, opts CleanupOptions) (*CleanupResult, error) {
	result := &CleanupResult{
		RemovedDirs: []string{},
		FailedDirs:  make(map[string]error),
	}

	junk := toSet(append(append([]string{}, systemJunk...), opts.Ignored...))
	protected := toSet(opts.Protected)
	if len(opts.Ignored) > 0 {
		slog.Debug("using custom ignored files for cleanup", "files", opts.Ignored)
	}

	plan, err := planCleanup(rootPath, junk, protected, result)
	if err != nil {
		return result, err
	}
	if len(plan.dirs) == 0 {
		slog.Debug("no empty directory", "path", rootPath)
		return result, nil
	}

	if !opts.Force {
		confirmed, err := askConfirmation(opts.Prompter, plan.dirs)
		if err != nil {
			return result, err
		}
		if !confirmed {
			slog.Info("cleanup cancelled by user")
			return result, nil
		}
	}

	// a directory whose child could not be removed is not empty either
	blocked := make(map[string]bool)
	for _, dir := range plan.dirs {
		if blocked[dir] {
			slog.Debug("directory still holds a failed subdirectory, skipping", "path", dir)
			blocked[filepath.Dir(dir)] = true
			continue
		}

		for _, name := range plan.junk[dir] {
			file := filepath.Join(dir, name)
			if err := fs.Remove(file); err != nil {
				slog.Debug("failed to remove ignored file", "path", file, "error", err)
			}
		}

		if err := fs.Remove(dir); err != nil {
			slog.Warn("failed to remove empty directory", "path", dir, "error", err)
			result.FailedDirs[dir] = err
			blocked[filepath.Dir(dir)] = true
			continue
		}

		slog.Info("removed empty directory", "path", dir)
		result.RemovedDirs = append(result.RemovedDirs, dir)
	}

	return result, nil
}

// planCleanup walks rootPath once and decides bottom-up which directories can go
func planCleanup(rootPath string, junk, protected map[string]bool, result *CleanupResult) (*cleanupPlan, error) {
	var dirs []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("failed to access path during cleanup", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() || path == rootPath {
			return nil
		}
		if protected[d.Name()] {
			slog.Debug("skipping protected directory", "path", path)
			return fs.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory tree: %w", err)
	}

	plan := &cleanupPlan{junk: make(map[string][]string)}
	removable := make(map[string]bool, len(dirs))

	// the walk is pre-order: reversed, children come before their parent
	for i := len(dirs) - 1; i >= 0; i-- {
		dir := dirs[i]
		entries, err := os.ReadDir(dir)
		if err != nil {
			slog.Warn("failed to check if directory is empty", "path", dir, "error", err)
			result.FailedDirs[dir] = err
			continue
		}

		var files []string
		empty := true
		for _, entry := range entries {
			name := entry.Name()
			switch {
			case entry.IsDir() && removable[filepath.Join(dir, name)]:
			case !entry.IsDir() && junk[name]:
				files = append(files, name)
			default:
				empty = false
			}
			if !empty {
				break
			}
		}

		if empty {
			removable[dir] = true
			plan.dirs = append(plan.dirs, dir)
			plan.junk[dir] = files
		}
	}

	return plan, nil
}

// askConfirmation lists the directories and asks once before removing them
func askConfirmation(prompter Prompter, dirs []string) (bool, error) {
	if prompter == nil {
		return false, fmt.Errorf("no prompter to confirm the removal of %d directories", len(dirs))
	}

	fmt.Println()
	slog.Warn("found empty directories",
		"count", len(dirs),
		"action", "will be removed if confirmed")

	fmt.Println("\nEmpty directories to remove:")
	for _, dir := range dirs[:min(len(dirs), maxDirsListed)] {
		fmt.Printf("  - %s\n", dir)
	}
	if len(dirs) > maxDirsListed {
		fmt.Printf("  ... and %d more\n", len(dirs)-maxDirsListed)
	}

	response, err := prompter.Ask("\nDo you want to remove these empty directories? [y/N]: ")
	if err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
