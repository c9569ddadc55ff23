package handler

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrorType is the category of a FileError
type ErrorType string

const (
	ErrTypeIO         ErrorType = "IO"
	ErrTypePermission ErrorType = "Permission"
	ErrTypeValidation ErrorType = "Validation"
	ErrTypeConfig     ErrorType = "Config"
)

var (
	ErrInvalidPermissionString = errors.New("invalid permission string")
	ErrMalformedConfig         = errors.New("malformed configuration")
	ErrTargetExists            = errors.New("target already exists")
	ErrNotDirectory            = errors.New("path is not a directory")
	ErrOverlappingPaths        = errors.New("directories overlap")
	ErrLocked                  = errors.New("another run holds the directory lock")
)

// FileError is the structured error returned by single-file operations
type FileError struct {
	Type    ErrorType         // Error category
	Op      string            // Operation in progress ("remove_file", "rename_file")
	Path    string            // File or folder concerned
	Err     error             // Original error
	Details map[string]string // Extra context
}

// Error implements the error interface
func (e *FileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Op, e.Path)
}

// Unwrap gives access to the original error
func (e *FileError) Unwrap() error {
	return e.Err
}

// Suggestion returns a corrective action for the error type
func (e *FileError) Suggestion() string {
	switch e.Type {
	case ErrTypePermission:
		if e.Op == "change_permissions" {
			return fmt.Sprintf("Check ownership of %s", e.Path)
		}
		return fmt.Sprintf("chmod +w %s", filepath.Dir(e.Path))

	case ErrTypeValidation:
		if target := e.Details["target"]; target != "" {
			return fmt.Sprintf("Remove or rename %s and retry", target)
		}
		return "Check file name and configuration"

	case ErrTypeConfig:
		return "Check the settings file (permissions, bad-characters, substitute, temporary-extensions)"

	case ErrTypeIO:
		if e.Err != nil {
			errMsg := e.Err.Error()
			if strings.Contains(errMsg, "no space") {
				return "Free up disk space and retry"
			}
			if strings.Contains(errMsg, "no such file") {
				return "File was removed by another process, rerun to refresh the file list"
			}
		}
		return "Check filesystem and retry"

	default:
		return "See error message for details"
	}
}

// IsCritical reports whether the error must stop the run
func (e *FileError) IsCritical() bool {
	switch e.Type {
	case ErrTypeValidation:
		return false
	default:
		return true
	}
}

// newFileError classifies err for path and op
func newFileError(op, path string, err error) *FileError {
	errType := ErrTypeIO
	switch {
	case errors.Is(err, ErrTargetExists):
		errType = ErrTypeValidation
	case isPermissionError(err):
		errType = ErrTypePermission
	}
	return &FileError{Type: errType, Op: op, Path: path, Err: err}
}
