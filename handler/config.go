package handler

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// Always treated as temporary, whatever the settings file says
	defaultTempExtension = ".tmp"

	keyPermissions    = "permissions"
	keyBadCharacters  = "bad-characters"
	keySubstitute     = "substitute"
	keyTempExtensions = "temporary-extensions"
)

// Settings is the cleanup vocabulary read from the settings file
type Settings struct {
	Permissions         string          // Target permissions ("rw-r--r--" or "-rw-r--r--")
	BadCharacters       map[string]bool // Characters not allowed in file names
	Substitute          string          // Replacement for each bad character
	TemporaryExtensions map[string]bool // Extensions of temporary files (with leading dot)
}

// yamlSettings is the on-disk YAML layout of Settings
type yamlSettings struct {
	Permissions         string   `yaml:"permissions"`
	BadCharacters       []string `yaml:"bad_characters"`
	Substitute          string   `yaml:"substitute"`
	TemporaryExtensions []string `yaml:"temporary_extensions"`
}

// NewSettings builds settings from plain values and enforces the .tmp invariant
func NewSettings(permissions string, badCharacters []string, substitute string, tempExtensions []string) (*Settings, error) {
	s := &Settings{
		Permissions:         permissions,
		BadCharacters:       toSet(badCharacters),
		Substitute:          substitute,
		TemporaryExtensions: toSet(tempExtensions),
	}
	s.TemporaryExtensions[defaultTempExtension] = true

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the target permissions decode
func (s *Settings) Validate() error {
	if _, err := SymbolicToOctal(s.Permissions); err != nil {
		return fmt.Errorf("permissions: %w", err)
	}

	if HasBadCharacters(s.Substitute, s.BadCharacters) {
		slog.Warn("substitute contains a bad character, renamed files will keep bad characters",
			"substitute", s.Substitute)
	}

	return nil
}

// LoadSettings reads a settings file, YAML when the extension is .yaml or .yml,
// the four line "key: value" format otherwise
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings *Settings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		settings, err = parseYAMLSettings(data)
	default:
		settings, err = parseLineSettings(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	slog.Debug("settings loaded",
		"path", path,
		"permissions", settings.Permissions,
		"bad_characters", strings.Join(sortedKeys(settings.BadCharacters), " "),
		"substitute", settings.Substitute,
		"temporary_extensions", strings.Join(sortedKeys(settings.TemporaryExtensions), " "))

	return settings, nil
}

func parseYAMLSettings(data []byte) (*Settings, error) {
	var raw yamlSettings
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return NewSettings(raw.Permissions, raw.BadCharacters, raw.Substitute, raw.TemporaryExtensions)
}

// parseLineSettings reads the four first lines, in order:
//
//	permissions: -rw-r--r--
//	bad-characters: , ; :
//	substitute: _
//	temporary-extensions: .temp .bak
func parseLineSettings(data []byte) (*Settings, error) {
	keys := []string{keyPermissions, keyBadCharacters, keySubstitute, keyTempExtensions}
	values := make([]string, 0, len(keys))

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for len(values) < len(keys) && scanner.Scan() {
		key := keys[len(values)]
		line := strings.TrimRight(scanner.Text(), " \t\r")

		name, value, found := strings.Cut(line, ":")
		if !found || name != key {
			return nil, fmt.Errorf("%w: line %d must start with %q", ErrMalformedConfig, len(values)+1, key+": ")
		}
		values = append(values, strings.TrimPrefix(value, " "))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(values) < len(keys) {
		return nil, fmt.Errorf("%w: expected %d lines, got %d", ErrMalformedConfig, len(keys), len(values))
	}

	return NewSettings(values[0], strings.Split(values[1], " "), values[2], strings.Split(values[3], " "))
}

// toSet drops empty entries
func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = true
		}
	}
	return set
}

// Config holds all configuration for a cleanup run
type Config struct {
	MainPath     string   // Main directory, copies are merged into it
	CopyPaths    []string // Copy directories
	SettingsPath string   // Settings file (line format or YAML)
	Policy       Policy

	UseMediaDates    bool     // Order duplicates by EXIF / video creation date when available
	ContinueOnError  bool     // Record failed file operations instead of stopping
	MoveToMain       bool     // Move remaining copy files into the main directory
	CleanupEmptyDirs bool     // Remove directories left empty after the move
	CleanupIgnore    []string // Additional files ignored when checking emptiness
	CleanupProtect   []string // Directory names the cleanup never removes
	Force            bool     // Skip confirmation prompts (cleanup)

	LogLevel  string
	LogFormat string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MainPath == "" {
		return errors.New("main path cannot be empty")
	}

	if !c.Policy.Duplicate.IsValid() {
		return fmt.Errorf("invalid duplicate action %q", c.Policy.Duplicate)
	}

	dirs := append([]string{c.MainPath}, c.CopyPaths...)
	for _, dir := range dirs {
		fi, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("path does not exist: %s", dir)
			}
			return err
		}
		if !fi.IsDir() {
			return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
		}
	}

	return checkDisjoint(dirs)
}

// checkDisjoint rejects a directory given twice or nested in another one:
// its files would be collected twice and compared with themselves
func checkDisjoint(dirs []string) error {
	abs := make([]string, len(dirs))
	for i, dir := range dirs {
		a, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", dir, err)
		}
		abs[i] = a
	}

	for i := range abs {
		for j := i + 1; j < len(abs); j++ {
			if isWithin(abs[i], abs[j]) || isWithin(abs[j], abs[i]) {
				return fmt.Errorf("%w: %s and %s", ErrOverlappingPaths, dirs[i], dirs[j])
			}
		}
	}
	return nil
}

// isWithin reports whether path is dir or below it
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// DefaultConfig returns a configuration with default values
func DefaultConfig(mainPath string) *Config {
	return &Config{
		MainPath:       mainPath,
		SettingsPath:   defaultSettingsPath,
		Policy:         DefaultPolicy(),
		MoveToMain:     true,
		CleanupProtect: append([]string{}, DefaultProtectedDirs...),
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

const defaultSettingsPath = "clean_files"
