package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
)

// compareChunkSize is the read size of the byte by byte comparison
const compareChunkSize = 64 * 1024

// DuplicateGroup is a maximal run of files sharing the same size
type DuplicateGroup struct {
	Size  int64
	Files []string
}

// GroupBySize stable sorts paths by size and splits them into runs of equal size.
// Files of distinct sizes never share a group and every file lands in exactly one group.
// Files that vanished before they could be sized are left out.
func GroupBySize(fs FileSystem, paths []string) ([]DuplicateGroup, error) {
	type sized struct {
		path string
		size int64
	}

	files := make([]sized, 0, len(paths))
	for _, path := range paths {
		size, err := fs.Size(path)
		if err != nil {
			if isNotExist(err) {
				slog.Warn("file vanished before duplicate detection", "file", path)
				continue
			}
			return nil, newFileError("stat_file", path, err)
		}
		files = append(files, sized{path: path, size: size})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].size < files[j].size
	})

	var groups []DuplicateGroup
	for _, f := range files {
		if n := len(groups); n > 0 && groups[n-1].Size == f.size {
			groups[n-1].Files = append(groups[n-1].Files, f.path)
			continue
		}
		groups = append(groups, DuplicateGroup{Size: f.size, Files: []string{f.path}})
	}

	return groups, nil
}

// SameContent compares two files byte by byte, metadata is never trusted
func SameContent(fs FileSystem, a, b string) (bool, error) {
	ra, err := fs.Open(a)
	if err != nil {
		return false, err
	}
	defer ra.Close()

	rb, err := fs.Open(b)
	if err != nil {
		return false, err
	}
	defer rb.Close()

	bufA := make([]byte, compareChunkSize)
	bufB := make([]byte, compareChunkSize)
	for {
		na, errA := readChunk(ra, bufA)
		if errA != nil && !errors.Is(errA, io.EOF) {
			return false, errA
		}
		nb, errB := readChunk(rb, bufB)
		if errB != nil && !errors.Is(errB, io.EOF) {
			return false, errB
		}

		if na != nb || !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		if errA != nil || errB != nil {
			return errA != nil && errB != nil, nil
		}
	}
}

// readChunk fills buf, io.EOF marks the last (possibly partial) chunk
func readChunk(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return n, io.EOF
	}
	return n, err
}

// orderByCreation returns the pair as (older, newer); equal times keep the given order
func orderByCreation(fs FileSystem, a, b string) (string, string, error) {
	ta, err := fs.CreationTime(a)
	if err != nil {
		return "", "", err
	}
	tb, err := fs.CreationTime(b)
	if err != nil {
		return "", "", err
	}

	if tb.Before(ta) {
		return b, a, nil
	}
	return a, b, nil
}

// forEachPair calls fn on every pair (i<j) of files in group order
func forEachPair(files []string, fn func(a, b string) error) error {
	for i := 0; i < len(files); i++ {
		for j := i + 1; j < len(files); j++ {
			if err := fn(files[i], files[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

// duplicatePrompt is the question asked for an identical pair
func duplicatePrompt(older, newer string) string {
	return fmt.Sprintf("%s (old) and %s (new) are identical. Which remove? Old, New or nonE? [O/n/e]: ", older, newer)
}
