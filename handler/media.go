package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/abema/go-mp4"
	"github.com/rwcarlsen/goexif/exif"
)

const (
	minValidYear  = 1990
	maxFutureDays = 1 // tolerance for clock skew
)

var (
	// EXIF capable photo extensions (lowercase)
	exifExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".tif":  true,
		".tiff": true,
		".heic": true,
		".nef":  true,
		".cr2":  true,
		".dng":  true,
		".arw":  true,
	}

	// ISO base media extensions carrying a mvhd box (lowercase)
	videoExtensions = map[string]bool{
		".mp4": true,
		".mov": true,
		".m4v": true,
	}

	errNoCreationTime = errors.New("no creation time found in video metadata")
)

// DateSource indicates where a creation time comes from
type DateSource int

const (
	DateSourceFileSystem DateSource = iota
	DateSourceEXIF
	DateSourceVideoMeta
)

// String returns a text representation of the date source
func (ds DateSource) String() string {
	switch ds {
	case DateSourceEXIF:
		return "EXIF"
	case DateSourceVideoMeta:
		return "VideoMeta"
	default:
		return "FileSystem"
	}
}

// mediaFileSystem reports the capture date of photos and videos as their
// creation time, so the older of two identical shots is the one taken first.
// Every other call goes to the wrapped FileSystem.
type mediaFileSystem struct {
	FileSystem
}

// WithMediaDates wraps fs so that CreationTime prefers embedded capture dates
func WithMediaDates(fs FileSystem) FileSystem {
	return mediaFileSystem{FileSystem: fs}
}

func (m mediaFileSystem) CreationTime(path string) (time.Time, error) {
	t, source := m.captureTime(path)
	if source != DateSourceFileSystem {
		slog.Debug("using embedded capture date", "file", filepath.Base(path), "source", source.String(), "date", t.Format(time.RFC3339))
		return t, nil
	}
	return m.FileSystem.CreationTime(path)
}

// captureTime returns the embedded date and its source, DateSourceFileSystem when none is usable
func (m mediaFileSystem) captureTime(path string) (time.Time, DateSource) {
	ext := strings.ToLower(filepath.Ext(path))
	if !exifExtensions[ext] && !videoExtensions[ext] {
		return time.Time{}, DateSourceFileSystem
	}

	f, err := m.FileSystem.Open(path)
	if err != nil {
		slog.Debug("failed to open media file", "file", filepath.Base(path), "error", err)
		return time.Time{}, DateSourceFileSystem
	}
	defer f.Close()

	if exifExtensions[ext] {
		t, err := extractEXIFDate(f)
		if err == nil && isValidDateTime(t) {
			return t, DateSourceEXIF
		}
		slog.Debug("failed to extract EXIF date", "file", filepath.Base(path), "error", err)
		return time.Time{}, DateSourceFileSystem
	}

	t, err := extractVideoCreationTime(f)
	if err == nil && isValidDateTime(t) {
		return t, DateSourceVideoMeta
	}
	slog.Debug("failed to extract video metadata", "file", filepath.Base(path), "error", err)
	return time.Time{}, DateSourceFileSystem
}

// extractEXIFDate extracts DateTimeOriginal (or DateTime) from a photo
func extractEXIFDate(r io.Reader) (time.Time, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to decode EXIF: %w", err)
	}

	t, err := x.DateTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get DateTime: %w", err)
	}
	return t, nil
}

// extractVideoCreationTime reads creation_time of the mvhd box (seconds since 1904-01-01 UTC)
func extractVideoCreationTime(r io.ReadSeeker) (time.Time, error) {
	var found *time.Time
	_, err := mp4.ReadBoxStructure(r, func(h *mp4.ReadHandle) (interface{}, error) {
		if h.BoxInfo.Type == mp4.BoxTypeMoov() {
			return h.Expand()
		}
		if h.BoxInfo.Type != mp4.BoxTypeMvhd() {
			return nil, nil
		}

		box, _, err := h.ReadPayload()
		if err != nil {
			return nil, err
		}
		mvhd, ok := box.(*mp4.Mvhd)
		if !ok {
			return nil, nil
		}

		seconds := mvhd.GetCreationTime()
		if seconds > uint64(1<<63-1)/uint64(time.Second) {
			return nil, fmt.Errorf("creation time overflow")
		}
		mp4Epoch := time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
		t := mp4Epoch.Add(time.Duration(seconds) * time.Second)
		found = &t
		return nil, nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse MP4: %w", err)
	}

	if found == nil {
		return time.Time{}, errNoCreationTime
	}
	return *found, nil
}

// isValidDateTime rejects unset camera clocks and dates in the future
func isValidDateTime(t time.Time) bool {
	if t.Year() < minValidYear {
		return false
	}
	maxFuture := time.Now().AddDate(0, 0, maxFutureDays)
	return !t.After(maxFuture)
}
