package handler

import (
	"fmt"
	"log/slog"
	"strings"
)

// remover removes empty, temporary and duplicated files
type remover struct {
	fs       FileSystem
	prompter Prompter
}

func newRemover(fs FileSystem, prompter Prompter) *remover {
	return &remover{fs: fs, prompter: prompter}
}

func (r *remover) removeFile(path string) error {
	if err := r.fs.Remove(path); err != nil {
		return newFileError("remove_file", path, err)
	}
	slog.Info("file removed", "file", path)
	return nil
}

// askToRemove resolves the ask / action pair and removes the file when applied.
// Returns whether the file was removed.
func (r *remover) askToRemove(path string, ask, action bool) (bool, error) {
	remove, err := Decide(r.prompter, ask, action, fmt.Sprintf("Remove %s? [Y/n]: ", path))
	if err != nil {
		return false, err
	}
	if !remove {
		slog.Info("file kept", "file", path)
		return false, nil
	}

	if err := r.removeFile(path); err != nil {
		return false, err
	}
	return true, nil
}

func (r *remover) processEmptyFile(path string, ask, action bool) (bool, error) {
	slog.Info("file is empty", "file", path)
	return r.askToRemove(path, ask, action)
}

func (r *remover) processTemporaryFile(path string, ask, action bool) (bool, error) {
	slog.Info("file is temporary", "file", path)
	return r.askToRemove(path, ask, action)
}

// processDuplicateFiles removes one file of an identical pair according to action.
// Returns the removed path, empty when both files are kept.
func (r *remover) processDuplicateFiles(a, b string, action DuplicateAction) (string, error) {
	older, newer, err := orderByCreation(r.fs, a, b)
	if err != nil {
		return "", newFileError("stat_file", a, err)
	}

	slog.Info("identical files", "old", older, "new", newer)

	switch action {
	case DuplicateOld:
		return older, r.removeFile(older)
	case DuplicateNew:
		return newer, r.removeFile(newer)
	case DuplicateNone:
		slog.Info("identical files kept", "old", older, "new", newer)
		return "", nil
	}

	choice, err := r.prompter.Ask(duplicatePrompt(older, newer))
	if err != nil {
		return "", err
	}

	switch strings.ToUpper(strings.TrimSpace(choice)) {
	case "", "O":
		return older, r.removeFile(older)
	case "N":
		return newer, r.removeFile(newer)
	default:
		slog.Info("identical files kept", "old", older, "new", newer)
		return "", nil
	}
}

// processGroup compares every pair of a same-size group and resolves identical ones.
// Pairs are judged independently: three identical files may lose two of them.
// Returns the removed paths.
func (r *remover) processGroup(files []string, action DuplicateAction) ([]string, error) {
	var removed []string

	err := forEachPair(files, func(a, b string) error {
		// a file is never its own duplicate
		if a == b {
			slog.Debug("same path listed twice, skipping pair", "file", a)
			return nil
		}
		// an earlier pair of this group may have removed one of them
		if !r.fs.Exists(a) || !r.fs.Exists(b) {
			return nil
		}

		same, err := SameContent(r.fs, a, b)
		if err != nil {
			if isNotExist(err) {
				slog.Debug("file vanished during comparison, skipping pair", "first", a, "second", b)
				return nil
			}
			return newFileError("compare_files", a, err)
		}
		if !same {
			return nil
		}

		path, err := r.processDuplicateFiles(a, b, action)
		if path != "" && err == nil {
			removed = append(removed, path)
		}
		return err
	})

	return removed, err
}
