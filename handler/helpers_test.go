package handler

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// scriptedPrompter answers questions from a fixed list and records them
type scriptedPrompter struct {
	answers   []string
	questions []string
}

func (p *scriptedPrompter) Ask(text string) (string, error) {
	p.questions = append(p.questions, text)
	if len(p.answers) == 0 {
		return "", errors.New("unexpected question: " + text)
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

// timedFileSystem overrides the creation time of known paths
type timedFileSystem struct {
	FileSystem
	times map[string]time.Time
}

func (f timedFileSystem) CreationTime(path string) (time.Time, error) {
	if t, ok := f.times[path]; ok {
		return t, nil
	}
	return f.FileSystem.CreationTime(path)
}

// newTimedFileSystem makes paths one second apart, in the given order
func newTimedFileSystem(paths ...string) timedFileSystem {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	times := make(map[string]time.Time, len(paths))
	for i, path := range paths {
		times[path] = base.Add(time.Duration(i) * time.Second)
	}
	return timedFileSystem{FileSystem: NewOSFileSystem(), times: times}
}

func testSettings(t *testing.T) *Settings {
	t.Helper()
	settings, err := NewSettings("-rw-r--r--", []string{",", ";", ":"}, "_", []string{".temp", ".bak"})
	if err != nil {
		t.Fatalf("NewSettings() error = %v", err)
	}
	return settings
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func fileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// faultyFileSystem fails chosen calls and records the opened paths
type faultyFileSystem struct {
	FileSystem
	sizeErr   map[string]error
	removeErr map[string]error
	opened    []string
}

func newFaultyFileSystem() *faultyFileSystem {
	return &faultyFileSystem{
		FileSystem: NewOSFileSystem(),
		sizeErr:    make(map[string]error),
		removeErr:  make(map[string]error),
	}
}

func (f *faultyFileSystem) Size(path string) (int64, error) {
	if err, ok := f.sizeErr[path]; ok {
		return 0, err
	}
	return f.FileSystem.Size(path)
}

func (f *faultyFileSystem) Remove(path string) error {
	if err, ok := f.removeErr[path]; ok {
		return err
	}
	return f.FileSystem.Remove(path)
}

func (f *faultyFileSystem) Open(path string) (io.ReadSeekCloser, error) {
	f.opened = append(f.opened, path)
	return f.FileSystem.Open(path)
}
