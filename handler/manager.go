package handler

import (
	"log/slog"
	"time"
)

// FileManager runs the cleanup passes over a working set of file paths.
// The working set only ever holds files that still exist: removal passes
// drop what they removed and the rename pass swaps in the new names.
type FileManager struct {
	settings  *Settings
	filenames []string
	policy    Policy

	fs         FileSystem
	prompter   Prompter
	classifier *Classifier
	remover    *remover
	changer    *changer

	continueOnError bool
	logLevel        string
	logFormat       string

	stats *RunStats
}

// NewFileManager creates a manager working on the local disk and asking on stdin,
// with the default policy
func NewFileManager(settings *Settings, filenames []string) *FileManager {
	m := &FileManager{
		settings:  settings,
		filenames: filenames,
		policy:    DefaultPolicy(),
		logLevel:  "info",
		logFormat: "text",
		stats:     &RunStats{StartTime: time.Now()},
	}
	m.wire(NewOSFileSystem(), NewStdinPrompter())
	return m
}

func (m *FileManager) wire(fs FileSystem, prompter Prompter) {
	m.fs = fs
	m.prompter = prompter
	m.classifier = NewClassifier(fs, m.settings)
	m.remover = newRemover(fs, prompter)
	m.changer = newChanger(fs, prompter, m.settings)
}

// SetFileSystem replaces the filesystem used by every pass
func (m *FileManager) SetFileSystem(fs FileSystem) {
	m.wire(fs, m.prompter)
}

// SetPrompter replaces the source of interactive answers
func (m *FileManager) SetPrompter(prompter Prompter) {
	m.wire(m.fs, prompter)
}

// SetContinueOnError records failed file operations in the stats instead of stopping
func (m *FileManager) SetContinueOnError(continueOnError bool) {
	m.continueOnError = continueOnError
}

// SetLogOptions tells the manager how logs are rendered, to decide on progress bars
func (m *FileManager) SetLogOptions(level, format string) {
	m.logLevel = level
	m.logFormat = format
}

func (m *FileManager) Filenames() []string {
	return m.filenames
}

func (m *FileManager) SetFilenames(filenames []string) {
	m.filenames = filenames
}

func (m *FileManager) TemporaryExtensions() map[string]bool {
	return m.settings.TemporaryExtensions
}

func (m *FileManager) BadCharacters() map[string]bool {
	return m.settings.BadCharacters
}

func (m *FileManager) Policy() Policy {
	return m.policy
}

// SetPolicy changes the policy for the next passes
func (m *FileManager) SetPolicy(policy Policy) {
	m.policy = policy
}

func (m *FileManager) Stats() *RunStats {
	return m.stats
}

// handle stops the pass on err unless errors are collected
func (m *FileManager) handle(err error) error {
	if err == nil {
		return nil
	}
	if !m.continueOnError {
		return err
	}
	m.stats.AddError(err)
	slog.Error("file operation failed, continuing", "error", err)
	return nil
}

// RemoveEmptyFiles removes (or asks to remove) every file of size zero
func (m *FileManager) RemoveEmptyFiles() error {
	kept := make([]string, 0, len(m.filenames))

	for i, path := range m.filenames {
		empty, err := m.classifier.IsEmpty(path)
		if err != nil {
			if err := m.handle(newFileError("stat_file", path, err)); err != nil {
				return err
			}
			kept = append(kept, path)
			continue
		}
		if !empty {
			kept = append(kept, path)
			continue
		}

		removed, err := m.remover.processEmptyFile(path, m.policy.AskEmpty, m.policy.ActionEmpty)
		if err := m.handle(err); err != nil {
			m.filenames = append(kept, m.filenames[i:]...)
			return err
		}
		if removed {
			m.stats.EmptyRemoved++
			continue
		}
		m.stats.Kept++
		kept = append(kept, path)
	}

	m.filenames = kept
	return nil
}

// RemoveTemporaryFiles removes (or asks to remove) files with a temporary extension or a trailing ~
func (m *FileManager) RemoveTemporaryFiles() error {
	kept := make([]string, 0, len(m.filenames))

	for i, path := range m.filenames {
		if !m.classifier.IsTemporary(path) {
			kept = append(kept, path)
			continue
		}

		size, sizeErr := m.fs.Size(path)
		if sizeErr != nil {
			slog.Debug("failed to size temporary file, not counted in reclaimed bytes", "file", path, "error", sizeErr)
		}
		removed, err := m.remover.processTemporaryFile(path, m.policy.AskTemporary, m.policy.ActionTemporary)
		if err := m.handle(err); err != nil {
			m.filenames = append(kept, m.filenames[i:]...)
			return err
		}
		if removed {
			m.stats.TemporaryRemoved++
			if sizeErr == nil {
				m.stats.BytesReclaimed += size
			}
			continue
		}
		m.stats.Kept++
		kept = append(kept, path)
	}

	m.filenames = kept
	return nil
}

// RemoveDuplicateFiles groups files by size, compares every pair of a group
// and removes one file of each identical pair according to the duplicate policy
func (m *FileManager) RemoveDuplicateFiles() error {
	groups, err := GroupBySize(m.fs, m.filenames)
	if err != nil {
		return err
	}

	tracked := make(map[string]bool, len(m.filenames))
	for _, group := range groups {
		for _, path := range group.Files {
			tracked[path] = true
		}
	}

	// a bar would garble the questions
	var bar interface{ Add(int) error }
	if m.policy.Duplicate != DuplicateAsk {
		if pb := createProgressBar(len(groups), "comparing", m.logLevel, m.logFormat); pb != nil {
			bar = pb
			defer pb.Finish()
		}
	}

	removed := make(map[string]bool)
	var passErr error
	for _, group := range groups {
		if len(group.Files) > 1 {
			paths, err := m.remover.processGroup(group.Files, m.policy.Duplicate)
			for _, path := range paths {
				removed[path] = true
			}
			m.stats.DuplicatesRemoved += len(paths)
			m.stats.BytesReclaimed += group.Size * int64(len(paths))

			if err := m.handle(err); err != nil {
				passErr = err
				break
			}
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	kept := make([]string, 0, len(m.filenames))
	for _, path := range m.filenames {
		if tracked[path] && !removed[path] {
			kept = append(kept, path)
		}
	}
	m.filenames = kept

	return passErr
}

// ChangeBadFilesPermissions sets the configured permissions on every file that differs.
// The working set is left untouched.
func (m *FileManager) ChangeBadFilesPermissions() error {
	for _, path := range m.filenames {
		current, wrong, err := m.classifier.HasWrongPermissions(path)
		if err != nil {
			if err := m.handle(newFileError("stat_file", path, err)); err != nil {
				return err
			}
			continue
		}
		if !wrong {
			continue
		}

		changed, err := m.changer.processFilePermissions(path, current, m.policy.AskPermissions, m.policy.ActionPermissions)
		if err := m.handle(err); err != nil {
			return err
		}
		if changed {
			m.stats.PermissionsChanged++
		} else {
			m.stats.Kept++
		}
	}

	return nil
}

// RenameWrongNamedFiles substitutes bad characters in file names, keeping the working set order
func (m *FileManager) RenameWrongNamedFiles() error {
	renamed := make([]string, 0, len(m.filenames))

	for i, path := range m.filenames {
		if !m.classifier.HasBadCharacters(path) {
			renamed = append(renamed, path)
			continue
		}

		newPath, err := m.changer.processWrongNamedFile(path, m.policy.AskWrongName, m.policy.ActionWrongName)
		if err := m.handle(err); err != nil {
			m.filenames = append(renamed, m.filenames[i:]...)
			return err
		}
		if newPath != path {
			m.stats.Renamed++
		} else {
			m.stats.Kept++
		}
		renamed = append(renamed, newPath)
	}

	m.filenames = renamed
	return nil
}

// ManageFiles runs every pass in order: empty, temporary, duplicates, permissions, names.
// Permissions and names come last so that they only touch files that survived.
func (m *FileManager) ManageFiles() error {
	m.stats.StartTime = time.Now()
	m.stats.TotalFiles = len(m.filenames)
	defer func() {
		m.stats.EndTime = time.Now()
	}()

	passes := []struct {
		name string
		run  func() error
	}{
		{"empty", m.RemoveEmptyFiles},
		{"temporary", m.RemoveTemporaryFiles},
		{"duplicates", m.RemoveDuplicateFiles},
		{"permissions", m.ChangeBadFilesPermissions},
		{"names", m.RenameWrongNamedFiles},
	}

	for _, pass := range passes {
		slog.Debug("running cleanup pass", "pass", pass.name, "files", len(m.filenames))
		if err := pass.run(); err != nil {
			return err
		}
	}

	return nil
}
