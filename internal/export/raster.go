package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png" // screenshot decoding
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/go-pdf/fpdf"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-builder/internal/rendering"
)

// A4 in millimetres, and in CSS pixels at 96 dpi
const (
	a4WidthMM  = 210.0
	a4HeightMM = 297.0
	a4WidthPx  = 794
	a4HeightPx = 1123
)

// RasterOptions configures the rasterizer
type RasterOptions struct {
	// ChromePath overrides the browser binary; empty uses chromedp's lookup
	ChromePath   string
	PollInterval time.Duration
	PollTimeout  time.Duration
	// Scale is the device scale factor of screenshots; zero means 2
	Scale   float64
	Verbose bool
}

// Rasterizer renders every page in headless Chrome, screenshots each page
// fragment and assembles the images into an A4 PDF, one image per page.
type Rasterizer struct {
	opts RasterOptions
}

// NewRasterizer creates a rasterizer
func NewRasterizer(opts RasterOptions) *Rasterizer {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = DefaultPollTimeout
	}
	if opts.Scale <= 0 {
		opts.Scale = 2
	}
	return &Rasterizer{opts: opts}
}

// Name returns the strategy name
func (r *Rasterizer) Name() string { return StrategyRaster }

// Export renders doc off-screen and assembles the page screenshots
func (r *Rasterizer) Export(ctx context.Context, doc *Document) (*Result, error) {
	expected := expectedPages(doc)
	if expected < 1 {
		return nil, &ExportError{Strategy: r.Name(), Message: "document has no layout"}
	}
	html, err := documentHTML(doc)
	if err != nil {
		return nil, &ExportError{Strategy: r.Name(), Message: "failed to render HTML", Cause: err}
	}
	if err := rendering.CheckFragments(html, doc.Layout); err != nil {
		return nil, &ExportError{Strategy: r.Name(), Message: "document does not match layout", Cause: err}
	}

	if r.opts.Verbose {
		log.Printf("[export] Rasterizing %d page(s)", expected)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.opts.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	err = chromedp.Run(browserCtx,
		chromedp.EmulateViewport(a4WidthPx, a4HeightPx, chromedp.EmulateScale(r.opts.Scale)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
	)
	if err != nil {
		return nil, r.fail(ctx, "failed to load document in browser", err)
	}

	if err := r.waitForFragments(ctx, browserCtx, expected); err != nil {
		return nil, r.fail(ctx, "page fragments not ready", err)
	}

	shots := make([][]byte, expected)
	for i := range shots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sel := "#" + rendering.PageID(i)
		if err := chromedp.Run(browserCtx, chromedp.Screenshot(sel, &shots[i], chromedp.ByQuery)); err != nil {
			return nil, r.fail(ctx, fmt.Sprintf("failed to capture page %d", i+1), err)
		}
	}

	pdf, err := AssembleImages(ctx, shots)
	if err != nil {
		return nil, r.fail(ctx, "failed to assemble PDF", err)
	}

	count, err := PageCount(pdf)
	if err != nil {
		return nil, r.fail(ctx, "assembled PDF is unreadable", err)
	}

	if r.opts.Verbose {
		log.Printf("[export] Raster PDF ready: %d page(s), %d bytes", count, len(pdf))
	}

	return &Result{
		PDF:           pdf,
		PageCount:     count,
		ExpectedPages: expected,
		Strategy:      r.Name(),
	}, nil
}

// waitForFragments polls the live DOM until it holds the expected number of
// page fragments
func (r *Rasterizer) waitForFragments(ctx, browserCtx context.Context, expected int) error {
	script := fmt.Sprintf("document.querySelectorAll(%q).length", rendering.PageSelector)
	found := 0
	start := time.Now()

	err := Poll(ctx, r.opts.PollInterval, r.opts.PollTimeout, func(waitCtx context.Context) (bool, error) {
		// chromedp needs the browser context; bound it by the poll window
		runCtx, cancel := context.WithCancel(browserCtx)
		defer cancel()
		stop := context.AfterFunc(waitCtx, cancel)
		defer stop()

		if err := chromedp.Run(runCtx, chromedp.Evaluate(script, &found)); err != nil {
			return false, err
		}
		return found >= expected, nil
	})
	if errors.Is(err, ErrPollTimeout) {
		return &FragmentsTimeoutError{Want: expected, Got: found, Waited: time.Since(start).Round(time.Millisecond)}
	}
	return err
}

// fail wraps err unless the caller cancelled, in which case ctx.Err() wins
func (r *Rasterizer) fail(ctx context.Context, msg string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return &ExportError{Strategy: r.Name(), Message: msg, Cause: err}
}

// AssembleImages lays PNG images out as consecutive A4 pages. Each image is
// scaled to the page width and keeps its aspect ratio.
func AssembleImages(ctx context.Context, images [][]byte) ([]byte, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("no page images")
	}

	configs := make([]image.Config, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, img := range images {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cfg, format, err := image.DecodeConfig(bytes.NewReader(img))
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			if format != "png" {
				return fmt.Errorf("page %d: expected png, got %s", i+1, format)
			}
			if cfg.Width == 0 || cfg.Height == 0 {
				return fmt.Errorf("page %d: empty image", i+1)
			}
			configs[i] = cfg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}

	for i, img := range images {
		name := fmt.Sprintf("page-%d", i+1)
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))

		w := a4WidthMM
		h := w * float64(configs[i].Height) / float64(configs[i].Width)
		if h > a4HeightMM {
			h = a4HeightMM
			w = h * float64(configs[i].Width) / float64(configs[i].Height)
		}

		pdf.AddPage()
		pdf.ImageOptions(name, (a4WidthMM-w)/2, 0, w, h, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
