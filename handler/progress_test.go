package handler

import (
	"testing"
)

func TestCreateProgressBar_Disabled(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		logLevel  string
		logFormat string
	}{
		{"debug", 100, "debug", "text"},
		{"DEBUG uppercase", 100, "DEBUG", "text"},
		{"json", 100, "info", "json"},
		{"Json mixed", 100, "info", "Json"},
		{"debug and json", 100, "debug", "json"},
		{"nothing to do", 0, "info", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if bar := createProgressBar(tt.total, "comparing", tt.logLevel, tt.logFormat); bar != nil {
				t.Errorf("createProgressBar(%d, %s, %s) should return nil", tt.total, tt.logLevel, tt.logFormat)
			}
		})
	}
}
