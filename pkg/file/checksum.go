package file

import (
	"crypto/sha256"
	"encoding/hex"
)

// Checksum returns the hex sha256 of the given content. Used as the etag for
// backends that do not supply one of their own.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
