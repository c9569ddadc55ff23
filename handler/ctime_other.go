//go:build !linux && !darwin

package handler

import (
	"os"
	"time"
)

// creationTime falls back to the modification time where no birth time is exposed
func creationTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
