package handler

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDateSource_String(t *testing.T) {
	tests := []struct {
		source DateSource
		want   string
	}{
		{DateSourceFileSystem, "FileSystem"},
		{DateSourceEXIF, "EXIF"},
		{DateSourceVideoMeta, "VideoMeta"},
	}

	for _, tt := range tests {
		if got := tt.source.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"recent", time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC), true},
		{"unset camera clock", time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"mp4 epoch", time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"next week", time.Now().AddDate(0, 0, 7), false},
		{"now", time.Now(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidDateTime(tt.t); got != tt.want {
				t.Errorf("isValidDateTime(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

// Files without usable embedded dates keep the creation time of the wrapped FileSystem
func TestWithMediaDates_FallsBack(t *testing.T) {
	tmpDir := t.TempDir()
	files := map[string]string{
		"notes.txt":   "plain text",
		"broken.jpg":  "not a jpeg",
		"empty.mp4":   "",
		"UPPER.JPEG":  "still not a jpeg",
		"noext_photo": "x",
	}

	var paths []string
	for name, content := range files {
		path := filepath.Join(tmpDir, name)
		writeFile(t, path, content)
		paths = append(paths, path)
	}

	inner := newTimedFileSystem(paths...)
	fs := WithMediaDates(inner)

	for _, path := range paths {
		got, err := fs.CreationTime(path)
		if err != nil {
			t.Fatalf("CreationTime(%s) error = %v", path, err)
		}
		if want := inner.times[path]; !got.Equal(want) {
			t.Errorf("CreationTime(%s) = %v, want %v", filepath.Base(path), got, want)
		}
	}
}

func TestWithMediaDates_DelegatesOtherCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	writeFile(t, path, "12345")
	fs := WithMediaDates(NewOSFileSystem())

	if size, err := fs.Size(path); err != nil || size != 5 {
		t.Errorf("Size() = %d, %v, want 5", size, err)
	}
	if !fs.Exists(path) {
		t.Error("Exists() = false")
	}
}

func TestExtractVideoCreationTime_NoMetadata(t *testing.T) {
	if _, err := extractVideoCreationTime(bytes.NewReader(nil)); err == nil {
		t.Error("extractVideoCreationTime() on an empty file should fail")
	}
}

// movieHeader builds a moov box holding a version 0 mvhd with the given creation time
func movieHeader(created time.Time) []byte {
	mp4Epoch := time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)

	mvhd := make([]byte, 108)
	binary.BigEndian.PutUint32(mvhd[0:], 108)
	copy(mvhd[4:], "mvhd")
	binary.BigEndian.PutUint32(mvhd[12:], uint32(created.Sub(mp4Epoch)/time.Second))
	binary.BigEndian.PutUint32(mvhd[20:], 1000)    // timescale
	binary.BigEndian.PutUint32(mvhd[28:], 0x10000) // rate 1.0
	binary.BigEndian.PutUint16(mvhd[32:], 0x100)   // volume 1.0
	binary.BigEndian.PutUint32(mvhd[104:], 1)      // next track id

	moov := make([]byte, 8, 8+len(mvhd))
	binary.BigEndian.PutUint32(moov[0:], uint32(8+len(mvhd)))
	copy(moov[4:], "moov")
	return append(moov, mvhd...)
}

func TestExtractVideoCreationTime(t *testing.T) {
	want := time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)

	got, err := extractVideoCreationTime(bytes.NewReader(movieHeader(want)))
	if err != nil {
		t.Fatalf("extractVideoCreationTime() error = %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("extractVideoCreationTime() = %v, want %v", got, want)
	}
}

// Embedded dates are read through the wrapped FileSystem, never straight from disk
func TestWithMediaDates_OpensThroughWrapped(t *testing.T) {
	tmpDir := t.TempDir()
	clip := filepath.Join(tmpDir, "clip.mp4")
	photo := filepath.Join(tmpDir, "photo.jpg")
	notes := filepath.Join(tmpDir, "notes.txt")
	created := time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)
	if err := os.WriteFile(clip, movieHeader(created), 0644); err != nil {
		t.Fatal(err)
	}
	writeFile(t, photo, "not a jpeg")
	writeFile(t, notes, "text")

	inner := newFaultyFileSystem()
	fs := WithMediaDates(inner)

	got, err := fs.CreationTime(clip)
	if err != nil {
		t.Fatalf("CreationTime(clip.mp4) error = %v", err)
	}
	if !got.Equal(created) {
		t.Errorf("CreationTime(clip.mp4) = %v, want %v", got, created)
	}
	for _, path := range []string{photo, notes} {
		if _, err := fs.CreationTime(path); err != nil {
			t.Fatalf("CreationTime(%s) error = %v", filepath.Base(path), err)
		}
	}

	want := []string{clip, photo}
	if len(inner.opened) != len(want) || inner.opened[0] != want[0] || inner.opened[1] != want[1] {
		t.Errorf("opened %v, want %v", inner.opened, want)
	}
}
