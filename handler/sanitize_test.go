package handler

import (
	"path/filepath"
	"testing"
)

func TestSanitize(t *testing.T) {
	bad := toSet([]string{",", ";", ":"})

	tests := []struct {
		name       string
		input      string
		bad        map[string]bool
		substitute string
		want       string
	}{
		{"single", "bad,file", bad, "_", "bad_file"},
		{"several kinds", "a,b;c:d", bad, "_", "a_b_c_d"},
		{"repeated", ",,;;", bad, "_", "____"},
		{"clean name", "goodfile", bad, "_", "goodfile"},
		{"empty substitute", "a,b", bad, "", "ab"},
		{"multi char bad", "a--b", toSet([]string{"--"}), "-", "a-b"},
		// "#" first, then "+" rewrites the substitute it produced
		{"substitute cascade", "a#b", toSet([]string{"#", "+"}), "+_", "a+__b"},
		{"disabled entry", "a,b", map[string]bool{",": false}, "_", "a,b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input, tt.bad, tt.substitute); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_RemovesAllBadCharacters(t *testing.T) {
	bad := toSet([]string{",", ";", ":"})
	names := []string{"a,b", "x;y:z", "::", "plain"}

	for _, name := range names {
		got := Sanitize(name, bad, "_")
		if HasBadCharacters(got, bad) {
			t.Errorf("Sanitize(%q) = %q still has bad characters", name, got)
		}
	}
}

func TestHasBadCharacters(t *testing.T) {
	tests := []struct {
		name string
		bad  map[string]bool
		want bool
	}{
		{"bad,file", toSet([]string{","}), true},
		{"goodfile", toSet([]string{","}), false},
		{"bad,file", map[string]bool{",": false}, false},
		{"anything", map[string]bool{"": true}, false},
		{"anything", nil, false},
	}

	for _, tt := range tests {
		if got := HasBadCharacters(tt.name, tt.bad); got != tt.want {
			t.Errorf("HasBadCharacters(%q, %v) = %v, want %v", tt.name, tt.bad, got, tt.want)
		}
	}
}

func TestSanitizedPath_KeepsDirectory(t *testing.T) {
	bad := toSet([]string{","})
	path := filepath.Join("dir,one", "a,b")

	want := filepath.Join("dir,one", "a_b")
	if got := sanitizedPath(path, bad, "_"); got != want {
		t.Errorf("sanitizedPath(%q) = %q, want %q", path, got, want)
	}
}
