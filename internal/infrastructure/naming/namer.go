package naming

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"media-library/pkg/file"
)

const randomStemLength = 32 // hex chars

// FileNamer maps an original file name to the name it is stored under.
// Implementations preserve the original extension byte-for-byte unless the
// strategy explicitly rewrites the whole name.
type FileNamer interface {
	Generate(originalName string) string
}

// NewFileNamer selects a namer by the configured strategy.
func NewFileNamer(strategy string) (FileNamer, error) {
	switch strategy {
	case "random", "":
		return &RandomNamer{}, nil
	case "original":
		return &OriginalNamer{}, nil
	case "uuid":
		return &UUIDNamer{}, nil
	default:
		return nil, fmt.Errorf("unknown naming strategy: %s", strategy)
	}
}

// RandomNamer emits a fixed-length random hexadecimal stem. The stem comes
// from crypto/rand so collisions stay cryptographically negligible.
type RandomNamer struct{}

func (n *RandomNamer) Generate(originalName string) string {
	_, ext := file.SplitExt(originalName)
	buf := make([]byte, randomStemLength/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform entropy source is broken;
		// fall back to a uuid rather than return a predictable name.
		return uuid.NewString() + ext
	}
	return hex.EncodeToString(buf) + ext
}

// OriginalNamer keeps the original base name in sanitized form.
type OriginalNamer struct{}

func (n *OriginalNamer) Generate(originalName string) string {
	stem, ext := file.SplitExt(originalName)
	return file.SanitizeBaseName(stem) + ext
}

// UUIDNamer emits a version-4 uuid stem.
type UUIDNamer struct{}

func (n *UUIDNamer) Generate(originalName string) string {
	_, ext := file.SplitExt(originalName)
	return uuid.NewString() + ext
}
