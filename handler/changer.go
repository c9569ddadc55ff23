package handler

import (
	"fmt"
	"log/slog"
	"os"
)

// changer fixes file names and permissions
type changer struct {
	fs       FileSystem
	prompter Prompter
	settings *Settings
}

func newChanger(fs FileSystem, prompter Prompter, settings *Settings) *changer {
	return &changer{fs: fs, prompter: prompter, settings: settings}
}

// correctFilename returns path with bad characters of its base name substituted
func (c *changer) correctFilename(path string) string {
	return sanitizedPath(path, c.settings.BadCharacters, c.settings.Substitute)
}

// processWrongNamedFile renames path when the decision applies.
// Returns the name the file now has.
func (c *changer) processWrongNamedFile(path string, ask, action bool) (string, error) {
	newPath := c.correctFilename(path)
	if newPath == path {
		// the substitute only reintroduces bad characters
		slog.Warn("sanitized name is unchanged, file kept", "file", path)
		return path, nil
	}

	rename, err := Decide(c.prompter, ask, action,
		fmt.Sprintf("Filename %s is wrong. Do you want to rename to %s? [Y/n]: ", path, newPath))
	if err != nil {
		return path, err
	}
	if !rename {
		slog.Info("wrong file name kept", "file", path)
		return path, nil
	}

	if err := c.fs.Rename(path, newPath); err != nil {
		fileErr := newFileError("rename_file", path, err)
		fileErr.Details = map[string]string{"target": newPath}
		return path, fileErr
	}

	slog.Info("file renamed", "file", path, "new_name", newPath)
	return newPath, nil
}

// processFilePermissions sets the target permissions when the decision applies.
// Returns whether the permissions were changed.
func (c *changer) processFilePermissions(path, current string, ask, action bool) (bool, error) {
	change, err := Decide(c.prompter, ask, action,
		fmt.Sprintf("Permissions of %s are %s. Do you want to change to %s? [Y/n]: ", path, current, c.settings.Permissions))
	if err != nil {
		return false, err
	}
	if !change {
		slog.Info("permissions kept", "file", path, "permissions", current)
		return false, nil
	}

	mode, err := SymbolicToOctal(c.settings.Permissions)
	if err != nil {
		return false, err
	}
	if err := c.fs.Chmod(path, os.FileMode(mode)); err != nil {
		return false, newFileError("change_permissions", path, err)
	}

	slog.Info("permissions changed", "file", path, "from", current, "to", c.settings.Permissions)
	return true, nil
}
