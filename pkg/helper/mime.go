package helper

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectMimeType sniffs the content type from the bytes themselves. The
// caller-declared filename or header is never consulted.
func DetectMimeType(data []byte) string {
	mt := mimetype.Detect(data).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.TrimSpace(mt)
}

func IsImageMime(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// MimeAllowed applies the configured policy: a non-empty allow list is
// exclusive, the forbid list always wins.
func MimeAllowed(mimeType string, allowed, forbidden []string) bool {
	for _, f := range forbidden {
		if strings.EqualFold(f, mimeType) {
			return false
		}
	}
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(a, mimeType) {
			return true
		}
	}
	return false
}
