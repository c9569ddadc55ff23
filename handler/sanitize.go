package handler

import (
	"path/filepath"
	"sort"
	"strings"
)

// Sanitize replaces every occurrence of each bad character with substitute.
// Characters are processed one after the other in sorted order, so a substitute
// containing a later bad character is itself rewritten.
func Sanitize(name string, badCharacters map[string]bool, substitute string) string {
	for _, char := range sortedKeys(badCharacters) {
		if char == "" {
			continue
		}
		name = strings.ReplaceAll(name, char, substitute)
	}
	return name
}

// HasBadCharacters reports whether name contains at least one bad character
func HasBadCharacters(name string, badCharacters map[string]bool) bool {
	for char, ok := range badCharacters {
		if ok && char != "" && strings.Contains(name, char) {
			return true
		}
	}
	return false
}

// sanitizedPath rewrites the base name of path, the directory part is kept as is
func sanitizedPath(path string, badCharacters map[string]bool, substitute string) string {
	dir, base := filepath.Split(path)
	return dir + Sanitize(base, badCharacters, substitute)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k, ok := range set {
		if ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
