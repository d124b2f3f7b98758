package entities

// FitMode controls how an image is resized into the requested box.
type FitMode string

const (
	FitCover   FitMode = "cover"   // crop to fill the box
	FitContain FitMode = "contain" // letterbox, no crop
	FitFill    FitMode = "fill"    // stretch, ignore aspect ratio
	FitInside  FitMode = "inside"  // bound within the box, never upscale past the source
	FitOutside FitMode = "outside" // cover the box, never downscale past the source
)

// ConversionOptions describes one named variant to derive from an original.
// Purely descriptive, no identity.
type ConversionOptions struct {
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Fit        FitMode `json:"fit,omitempty"`
	Quality    int     `json:"quality,omitempty"` // 1-100, 0 means the configured default
	Background string  `json:"background,omitempty"`
	Format     string  `json:"format,omitempty"` // target format, empty keeps the original
}

// ConversionResult is the processed output buffer for one conversion.
type ConversionResult struct {
	Data   []byte
	Size   int64
	Format string
}
