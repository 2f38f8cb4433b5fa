package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Strategy names
const (
	StrategyAuto        = "auto"
	StrategyRaster      = "raster"
	StrategyDeclarative = "declarative"
)

// Document is the input of an export: the resume, its layout and optionally
// the already rendered HTML
type Document struct {
	Resume   *types.Resume
	Layout   *types.Layout
	Template *rendering.Template
	// HTML is rendered from Layout when empty
	HTML string
}

// Result is a finished PDF
type Result struct {
	PDF           []byte
	PageCount     int
	ExpectedPages int
	Strategy      string
}

// PageMismatch reports whether the PDF page count differs from the layout.
// The declarative strategy paginates on its own, so a mismatch is expected
// there and is reported rather than treated as an error.
func (r *Result) PageMismatch() bool {
	return r.ExpectedPages > 0 && r.PageCount != r.ExpectedPages
}

// Exporter produces a PDF from a document
type Exporter interface {
	Name() string
	Export(ctx context.Context, doc *Document) (*Result, error)
}

// Options configures the exporters built by New
type Options struct {
	ChromePath   string
	PollInterval time.Duration
	PollTimeout  time.Duration
	Verbose      bool
}

// New returns the exporter for a strategy name
func New(strategy string, opts Options) (Exporter, error) {
	raster := NewRasterizer(RasterOptions{
		ChromePath:   opts.ChromePath,
		PollInterval: opts.PollInterval,
		PollTimeout:  opts.PollTimeout,
		Verbose:      opts.Verbose,
	})
	declarative := &Declarative{Verbose: opts.Verbose}

	switch strategy {
	case "", StrategyAuto:
		return &Fallback{Primary: raster, Secondary: declarative}, nil
	case StrategyRaster:
		return raster, nil
	case StrategyDeclarative:
		return declarative, nil
	default:
		return nil, fmt.Errorf("unknown export strategy %q (want %s, %s or %s)", strategy, StrategyAuto, StrategyRaster, StrategyDeclarative)
	}
}

// PageCount reads a PDF and returns its number of pages
func PageCount(pdf []byte) (int, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(pdf), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF: %w", err)
	}
	return ctx.PageCount, nil
}

func expectedPages(doc *Document) int {
	if doc == nil || doc.Layout == nil {
		return 0
	}
	return doc.Layout.TotalPages
}

// documentHTML returns doc.HTML, rendering it first when needed
func documentHTML(doc *Document) (string, error) {
	if doc.HTML != "" {
		return doc.HTML, nil
	}
	return rendering.RenderDocument(doc.Resume, doc.Layout, doc.Template)
}
