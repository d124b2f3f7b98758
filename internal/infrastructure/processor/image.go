package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"media-library/internal/domain/entities"
	"media-library/pkg/constants"
)

// Processor derives named variants from original image bytes.
type Processor interface {
	// Process runs every named conversion. Conversions are independent and
	// run concurrently; a failure in one does not abort its siblings. The
	// returned map holds the successes, the error reports the first failure.
	Process(data []byte, conversions map[string]entities.ConversionOptions) (map[string]entities.ConversionResult, error)
	ProcessOne(data []byte, opts entities.ConversionOptions) (*entities.ConversionResult, error)
}

// ImageProcessor resizes and re-encodes images via the imaging library.
type ImageProcessor struct {
	defaultQuality int
}

func NewImageProcessor(defaultQuality int) *ImageProcessor {
	if defaultQuality <= 0 || defaultQuality > 100 {
		defaultQuality = constants.DefaultQuality
	}
	return &ImageProcessor{defaultQuality: defaultQuality}
}

func (p *ImageProcessor) Process(data []byte, conversions map[string]entities.ConversionOptions) (map[string]entities.ConversionResult, error) {
	results := make(map[string]entities.ConversionResult, len(conversions))

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)

	for name, opts := range conversions {
		wg.Add(1)
		go func(name string, opts entities.ConversionOptions) {
			defer wg.Done()
			res, err := p.ProcessOne(data, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("conversion %q: %w", name, err)
				}
				return
			}
			results[name] = *res
		}(name, opts)
	}
	wg.Wait()

	return results, firstErr
}

func (p *ImageProcessor) ProcessOne(data []byte, opts entities.ConversionOptions) (*entities.ConversionResult, error) {
	img, srcFormat, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not decode image: %w", err)
	}

	resized, err := p.resize(img, opts)
	if err != nil {
		return nil, err
	}

	// Explicit target format wins, otherwise the original format is kept.
	formatName := srcFormat
	if opts.Format != "" {
		formatName = strings.ToLower(opts.Format)
	}
	format, err := imaging.FormatFromExtension(formatName)
	if err != nil {
		return nil, fmt.Errorf("unsupported output format %q: %w", formatName, err)
	}

	quality := opts.Quality
	if quality <= 0 {
		quality = p.defaultQuality
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("could not encode image: %w", err)
	}

	return &entities.ConversionResult{
		Data:   buf.Bytes(),
		Size:   int64(buf.Len()),
		Format: formatName,
	}, nil
}

func (p *ImageProcessor) resize(img image.Image, opts entities.ConversionOptions) (image.Image, error) {
	w, h := opts.Width, opts.Height
	if w == 0 && h == 0 {
		return img, nil
	}
	// A single bound always scales proportionally, whatever the fit mode.
	if w == 0 || h == 0 {
		return imaging.Resize(img, w, h, imaging.Lanczos), nil
	}

	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	switch opts.Fit {
	case entities.FitCover, "":
		return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos), nil

	case entities.FitContain:
		fitted := imaging.Fit(img, w, h, imaging.Lanczos)
		if opts.Background == "" {
			return fitted, nil
		}
		bg, err := parseHexColor(opts.Background)
		if err != nil {
			return nil, err
		}
		canvas := imaging.New(w, h, bg)
		return imaging.PasteCenter(canvas, fitted), nil

	case entities.FitFill:
		return imaging.Resize(img, w, h, imaging.Lanczos), nil

	case entities.FitInside:
		if srcW <= w && srcH <= h {
			return imaging.Clone(img), nil
		}
		return imaging.Fit(img, w, h, imaging.Lanczos), nil

	case entities.FitOutside:
		wRatio := float64(w) / float64(srcW)
		hRatio := float64(h) / float64(srcH)
		scale := wRatio
		if hRatio > scale {
			scale = hRatio
		}
		if scale <= 1 {
			return imaging.Clone(img), nil
		}
		if wRatio >= hRatio {
			return imaging.Resize(img, w, 0, imaging.Lanczos), nil
		}
		return imaging.Resize(img, 0, h, imaging.Lanczos), nil

	default:
		return nil, fmt.Errorf("unknown fit mode: %s", opts.Fit)
	}
}

func parseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid background color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid background color %q: %w", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
