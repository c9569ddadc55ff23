//go:build darwin

package handler

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// creationTime returns the birth time recorded by APFS/HFS+
func creationTime(path string) (time.Time, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return time.Unix(st.Birthtimespec.Unix()), nil
}
