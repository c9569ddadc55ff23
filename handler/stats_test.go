package handler

import (
	"errors"
	"testing"
	"time"
)

func TestRunStats_Duration(t *testing.T) {
	tests := []struct {
		name      string
		startTime time.Time
		endTime   time.Time
		wantMin   time.Duration
		wantMax   time.Duration
	}{
		{
			name:      "completed run",
			startTime: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			endTime:   time.Date(2024, 1, 1, 10, 5, 30, 0, time.UTC),
			wantMin:   5*time.Minute + 30*time.Second,
			wantMax:   5*time.Minute + 30*time.Second,
		},
		{
			name:      "ongoing run (no end time)",
			startTime: time.Now().Add(-2 * time.Second),
			wantMin:   1 * time.Second,
			wantMax:   3 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := &RunStats{StartTime: tt.startTime, EndTime: tt.endTime}
			if d := stats.Duration(); d < tt.wantMin || d > tt.wantMax {
				t.Errorf("Duration() = %v, want between %v and %v", d, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestRunStats_Removed(t *testing.T) {
	stats := &RunStats{EmptyRemoved: 2, TemporaryRemoved: 3, DuplicatesRemoved: 4, Renamed: 10}
	if got := stats.Removed(); got != 9 {
		t.Errorf("Removed() = %d, want 9", got)
	}
}

func TestRunStats_AddError(t *testing.T) {
	stats := &RunStats{}

	fileErr := &FileError{Type: ErrTypeValidation, Op: "rename_file", Path: "/x"}
	stats.AddError(fileErr)
	stats.AddError(errors.New("plain"))

	if len(stats.Errors) != 2 {
		t.Fatalf("len(Errors) = %d, want 2", len(stats.Errors))
	}
	if stats.Errors[0] != fileErr {
		t.Error("FileError should be recorded as is")
	}
	if stats.Errors[1].Type != ErrTypeIO || stats.Errors[1].Op != "unknown" {
		t.Errorf("plain error recorded as %+v, want IO unknown", stats.Errors[1])
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 bytes"},
		{512, "512 bytes"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.bytes); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestRunStats_PrintSummary(t *testing.T) {
	stats := &RunStats{
		StartTime:         time.Now().Add(-time.Minute),
		EndTime:           time.Now(),
		TotalFiles:        20,
		EmptyRemoved:      10,
		DuplicatesRemoved: 4,
		Renamed:           5,
		Moved:             3,
		BytesReclaimed:    68,
		Errors: []*FileError{
			{Type: ErrTypeIO, Op: "remove_file", Path: "/x", Err: errors.New("busy")},
			{Type: ErrTypeValidation, Op: "rename_file", Path: "/y", Details: map[string]string{"target": "/z"}},
		},
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("PrintSummary() panicked: %v", r)
		}
	}()
	stats.PrintSummary()
}
