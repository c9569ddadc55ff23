//go:build linux

package handler

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// creationTime returns the birth time when the filesystem records one,
// the inode change time otherwise
func creationTime(path string) (time.Time, error) {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME|unix.STATX_CTIME, &stx)
	if err != nil {
		return time.Time{}, fmt.Errorf("statx %s: %w", path, err)
	}

	if stx.Mask&unix.STATX_BTIME != 0 {
		return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), nil
	}
	return time.Unix(stx.Ctime.Sec, int64(stx.Ctime.Nsec)), nil
}
