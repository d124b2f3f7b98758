package file

import (
	"path/filepath"
	"strings"
)

// SplitExt splits a file name into stem and extension. The extension keeps
// the case it was supplied with; a name without one yields an empty
// extension, never a trailing dot.
func SplitExt(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}

// SanitizeSegment makes a string safe as a single path segment by replacing
// every non-alphanumeric character with an underscore.
func SanitizeSegment(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// SanitizeBaseName lower-cases a file stem and collapses every run of
// characters outside [a-z0-9] into a single hyphen, trimming leading and
// trailing hyphens.
func SanitizeBaseName(stem string) string {
	lower := strings.ToLower(stem)
	var b strings.Builder
	b.Grow(len(lower))
	lastHyphen := false
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
