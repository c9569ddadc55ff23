package handler

import (
	"path/filepath"
	"strings"
)

const backupSuffix = "~"

// Classifier answers the per-file questions of the cleanup passes
type Classifier struct {
	fs       FileSystem
	settings *Settings
}

// NewClassifier creates a classifier for the given settings
func NewClassifier(fs FileSystem, settings *Settings) *Classifier {
	return &Classifier{fs: fs, settings: settings}
}

// IsEmpty reports whether the file has size zero
func (c *Classifier) IsEmpty(path string) (bool, error) {
	size, err := c.fs.Size(path)
	if err != nil {
		return false, err
	}
	return size == 0, nil
}

// IsTemporary reports whether the extension is a temporary one or the name ends with ~
func (c *Classifier) IsTemporary(path string) bool {
	if path == "" {
		return false
	}
	return c.settings.TemporaryExtensions[filepath.Ext(path)] || strings.HasSuffix(path, backupSuffix)
}

// HasBadCharacters checks the base name only
func (c *Classifier) HasBadCharacters(path string) bool {
	return HasBadCharacters(filepath.Base(path), c.settings.BadCharacters)
}

// HasWrongPermissions returns the current symbolic permissions and whether
// they differ from the configured target
func (c *Classifier) HasWrongPermissions(path string) (string, bool, error) {
	mode, err := c.fs.Mode(path)
	if err != nil {
		return "", false, err
	}

	current := OctalToSymbolic(mode)
	return current, !SamePermissions(current, c.settings.Permissions), nil
}
