package naming

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"media-library/internal/domain/entities"
	"media-library/pkg/file"
)

const conversionsDir = "conversions"

// PathGenerator maps placement context to the storage path of the original
// and of a named conversion variant. For every strategy the invariant holds:
// directory + "/" + fileName == path when directory is non-empty, and
// path == fileName when it is empty.
type PathGenerator interface {
	Generate(ctx entities.PathContext) entities.PathResult
	GenerateConversion(ctx entities.PathContext, conversionName string) entities.PathResult
}

// NewPathGenerator selects a generator by the configured strategy.
func NewPathGenerator(strategy string) (PathGenerator, error) {
	switch strategy {
	case "default", "":
		return NewDefaultPathGenerator(), nil
	case "date":
		return &DatePathGenerator{now: time.Now}, nil
	case "flat":
		return &FlatPathGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown path strategy: %s", strategy)
	}
}

// DefaultPathGenerator lays files out as
// sanitize(modelType)/modelID/sanitize(collection)/fileName.
type DefaultPathGenerator struct {
	idSource func() string
}

type DefaultPathOption func(*DefaultPathGenerator)

// WithIDSource makes the generator mint the media id itself. The minted id is
// treated as caller-supplied identity downstream; uniqueness is enforced at
// persistence time, not here.
func WithIDSource(source func() string) DefaultPathOption {
	return func(g *DefaultPathGenerator) {
		g.idSource = source
	}
}

// WithMintedIDs is WithIDSource backed by uuid v4.
func WithMintedIDs() DefaultPathOption {
	return WithIDSource(uuid.NewString)
}

func NewDefaultPathGenerator(opts ...DefaultPathOption) *DefaultPathGenerator {
	g := &DefaultPathGenerator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *DefaultPathGenerator) Generate(ctx entities.PathContext) entities.PathResult {
	dir := file.SanitizeSegment(ctx.ModelType) + "/" + ctx.ModelID + "/" + file.SanitizeSegment(ctx.Collection)
	res := entities.PathResult{
		Path:      dir + "/" + ctx.FileName,
		Directory: dir,
		FileName:  ctx.FileName,
	}
	if g.idSource != nil {
		res.MediaID = g.idSource()
	}
	return res
}

func (g *DefaultPathGenerator) GenerateConversion(ctx entities.PathContext, conversionName string) entities.PathResult {
	return conversionResult(g.Generate(ctx).Directory, ctx.FileName, conversionName)
}

// DatePathGenerator lays files out as sanitize(modelType)/YYYY/MM/DD/fileName.
// The date is the current date at generation time, deliberately not an upload
// timestamp supplied by the caller.
type DatePathGenerator struct {
	now func() time.Time
}

func (g *DatePathGenerator) Generate(ctx entities.PathContext) entities.PathResult {
	dir := file.SanitizeSegment(ctx.ModelType) + "/" + g.now().Format("2006/01/02")
	return entities.PathResult{
		Path:      dir + "/" + ctx.FileName,
		Directory: dir,
		FileName:  ctx.FileName,
	}
}

func (g *DatePathGenerator) GenerateConversion(ctx entities.PathContext, conversionName string) entities.PathResult {
	return conversionResult(g.Generate(ctx).Directory, ctx.FileName, conversionName)
}

// FlatPathGenerator stores every file at the root with no segregation; the
// caller must ensure external uniqueness of file names.
type FlatPathGenerator struct{}

func (g *FlatPathGenerator) Generate(ctx entities.PathContext) entities.PathResult {
	return entities.PathResult{
		Path:      ctx.FileName,
		Directory: "",
		FileName:  ctx.FileName,
	}
}

func (g *FlatPathGenerator) GenerateConversion(ctx entities.PathContext, conversionName string) entities.PathResult {
	return conversionResult("", ctx.FileName, conversionName)
}

// ConversionPathFor derives a conversion variant's path from the original's
// stored path. Workers use this instead of re-running a strategy: the date
// strategy binds to the current date, so re-generation after midnight would
// place the variant in a different directory than its original.
func ConversionPathFor(originalPath, conversionName string) entities.PathResult {
	dir := ""
	name := originalPath
	if i := strings.LastIndex(originalPath, "/"); i >= 0 {
		dir = originalPath[:i]
		name = originalPath[i+1:]
	}
	return conversionResult(dir, name, conversionName)
}

func conversionResult(directory, fileName, conversionName string) entities.PathResult {
	stem, ext := file.SplitExt(fileName)
	name := stem + "-" + conversionName + ext

	dir := conversionsDir
	if directory != "" {
		dir = directory + "/" + conversionsDir
	}
	return entities.PathResult{
		Path:      dir + "/" + name,
		Directory: dir,
		FileName:  name,
	}
}
