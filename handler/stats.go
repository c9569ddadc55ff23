package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// RunStats holds statistics collected during a cleanup run
type RunStats struct {
	// Timing
	StartTime time.Time
	EndTime   time.Time

	// Counts
	TotalFiles         int
	EmptyRemoved       int
	TemporaryRemoved   int
	DuplicatesRemoved  int
	Renamed            int
	PermissionsChanged int
	Kept               int
	Moved              int

	// Disk
	BytesReclaimed int64

	// Issues
	Errors []*FileError
}

// Duration returns the total run duration
func (s *RunStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Removed returns the number of files removed by all passes
func (s *RunStats) Removed() int {
	return s.EmptyRemoved + s.TemporaryRemoved + s.DuplicatesRemoved
}

// AddError records err, wrapping it in a FileError when needed
func (s *RunStats) AddError(err error) {
	var fileErr *FileError
	if !errors.As(err, &fileErr) {
		fileErr = &FileError{Type: ErrTypeIO, Op: "unknown", Err: err}
	}
	s.Errors = append(s.Errors, fileErr)
}

// FormatBytes converts bytes to human-readable format (GB, MB, KB)
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}

// PrintSummary displays the run summary
func (s *RunStats) PrintSummary() {
	fmt.Println()
	slog.Info("=== Cleanup Summary ===")

	duration := s.Duration()
	slog.Info("cleanup completed",
		"duration", fmt.Sprintf("%dm %ds", int(duration.Minutes()), int(duration.Seconds())%60))

	slog.Info("files examined", "total", s.TotalFiles)

	slog.Info("files removed",
		"total", s.Removed(),
		"empty", s.EmptyRemoved,
		"temporary", s.TemporaryRemoved,
		"duplicates", s.DuplicatesRemoved,
		"reclaimed", FormatBytes(s.BytesReclaimed))

	slog.Info("files changed",
		"renamed", s.Renamed,
		"permissions", s.PermissionsChanged,
		"kept", s.Kept)

	if s.Moved > 0 {
		slog.Info("files moved to main directory", "count", s.Moved)
	}

	var criticalErrors []*FileError
	var warnings []*FileError
	for _, err := range s.Errors {
		if err.IsCritical() {
			criticalErrors = append(criticalErrors, err)
		} else {
			warnings = append(warnings, err)
		}
	}

	if len(criticalErrors) > 0 {
		fmt.Println()
		slog.Error("critical errors encountered", "count", len(criticalErrors))
		for _, err := range criticalErrors {
			slog.Error(err.Error(),
				"type", string(err.Type),
				"operation", err.Op,
				"path", err.Path,
				"suggestion", err.Suggestion())
		}
	}

	if len(warnings) > 0 {
		fmt.Println()
		slog.Warn("warnings detected", "count", len(warnings))
		for _, err := range warnings {
			slog.Warn(err.Error(),
				"type", string(err.Type),
				"operation", err.Op,
				"path", err.Path,
				"suggestion", err.Suggestion())
		}
	}

	fmt.Println()
	if len(criticalErrors) > 0 {
		slog.Error("⚠ Cleanup completed with errors", "total_errors", len(criticalErrors))
	} else {
		slog.Info("✓ Cleanup completed successfully")
	}
}
