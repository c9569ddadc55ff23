package handler

import (
	"fmt"
	"os"
)

const (
	symbolicPermLength     = 9
	symbolicModeLength     = 10 // ls -l form with leading file type
	permissionTripleLength = 3
)

// triple → octal digit
var permissionTriples = map[string]uint32{
	"---": 0,
	"--x": 1,
	"-w-": 2,
	"-wx": 3,
	"r--": 4,
	"r-x": 5,
	"rw-": 6,
	"rwx": 7,
}

// SymbolicToOctal converts "rwxr-xr--" (or "-rwxr-xr--") into its numeric value (0754).
// Each user/group/other triple becomes one octal digit.
func SymbolicToOctal(symbolic string) (uint32, error) {
	perm, err := normalizePermissions(symbolic)
	if err != nil {
		return 0, err
	}

	var numeric uint32
	for i := 0; i < symbolicPermLength; i += permissionTripleLength {
		digit, ok := permissionTriples[perm[i:i+permissionTripleLength]]
		if !ok {
			return 0, fmt.Errorf("%w: %q has invalid triple %q", ErrInvalidPermissionString, symbolic, perm[i:i+permissionTripleLength])
		}
		numeric = numeric<<3 | digit
	}

	return numeric, nil
}

// OctalToSymbolic returns the ls -l representation of a mode ("-rw-r--r--")
func OctalToSymbolic(mode os.FileMode) string {
	return mode.String()
}

// SamePermissions compares only the nine permission characters of both strings,
// so "rw-r--r--" and "-rw-r--r--" are equal
func SamePermissions(current, target string) bool {
	c, err := normalizePermissions(current)
	if err != nil {
		return false
	}
	t, err := normalizePermissions(target)
	if err != nil {
		return false
	}
	return c == t
}

// normalizePermissions strips the file type character of a 10 character mode
func normalizePermissions(symbolic string) (string, error) {
	switch len(symbolic) {
	case symbolicPermLength:
		return symbolic, nil
	case symbolicModeLength:
		return symbolic[1:], nil
	default:
		return "", fmt.Errorf("%w: %q has length %d, want %d or %d",
			ErrInvalidPermissionString, symbolic, len(symbolic), symbolicPermLength, symbolicModeLength)
	}
}
