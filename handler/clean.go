package handler

import (
	"fmt"
	"log/slog"
	"time"
)

// Clean runs a full cleanup: collect the files of the main and copy directories,
// run every pass, then merge the copies into the main directory
func Clean(cfg *Config) error {
	return cleanWith(cfg, NewOSFileSystem(), NewStdinPrompter())
}

func cleanWith(cfg *Config, fs FileSystem, prompter Prompter) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	settings, err := LoadSettings(cfg.SettingsPath)
	if err != nil {
		return &FileError{Type: ErrTypeConfig, Op: "load_settings", Path: cfg.SettingsPath, Err: err}
	}

	lock, err := AcquireRunLock(cfg.MainPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			slog.Warn("failed to release run lock", "error", err)
		}
	}()

	filenames, err := CollectFiles(cfg.MainPath, cfg.CopyPaths...)
	if err != nil {
		return err
	}
	slog.Info("files to manage", "count", len(filenames), "main", cfg.MainPath, "copies", len(cfg.CopyPaths))

	if cfg.UseMediaDates {
		fs = WithMediaDates(fs)
	}

	manager := NewFileManager(settings, filenames)
	manager.SetFileSystem(fs)
	manager.SetPrompter(prompter)
	manager.SetPolicy(cfg.Policy)
	manager.SetContinueOnError(cfg.ContinueOnError)
	manager.SetLogOptions(cfg.LogLevel, cfg.LogFormat)

	stats := manager.Stats()
	defer func() {
		stats.EndTime = time.Now()
		stats.PrintSummary()
	}()

	if err := manager.ManageFiles(); err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	if cfg.MoveToMain && len(cfg.CopyPaths) > 0 {
		moved, err := MoveFilesToMainDir(fs, cfg.MainPath, cfg.CopyPaths)
		stats.Moved = moved
		if err != nil {
			return fmt.Errorf("failed to move files to main directory: %w", err)
		}

		if cfg.CleanupEmptyDirs {
			for _, copyPath := range cfg.CopyPaths {
				slog.Info("cleaning up empty directories", "path", copyPath)
				opts := CleanupOptions{
					Force:     cfg.Force,
					Prompter:  prompter,
					Ignored:   cfg.CleanupIgnore,
					Protected: cfg.CleanupProtect,
				}
				if _, err := CleanupEmptyDirs(fs, copyPath, opts); err != nil {
					slog.Warn("cleanup failed", "path", copyPath, "error", err)
				}
			}
		}
	}

	return nil
}
