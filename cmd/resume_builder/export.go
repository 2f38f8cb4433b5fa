package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a resume to PDF",
	Long:  "Paginates a resume and exports it to PDF. The auto strategy rasterizes the rendered pages in a headless browser and falls back to a declarative PDF when that fails.",
	RunE:  runExport,
}

var (
	exportInput    string
	exportOutput   string
	exportHTML     string
	exportTemplate string
	exportStrategy string
	exportTimeout  time.Duration
)

func init() {
	exportCmd.Flags().StringVarP(&exportInput, "in", "i", "", "Path to resume JSON file (required)")
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Path to output PDF file (required)")
	exportCmd.Flags().StringVar(&exportHTML, "html", "", "Also write the rendered HTML document to this path")
	exportCmd.Flags().StringVarP(&exportTemplate, "template", "t", "", "Template to render with (default: the resume's own)")
	exportCmd.Flags().StringVarP(&exportStrategy, "strategy", "s", "", "Export strategy: auto, raster or declarative (default from config)")
	exportCmd.Flags().DurationVar(&exportTimeout, "timeout", 2*time.Minute, "Give up on the export after this long")

	if err := exportCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := exportCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(exportInput); os.IsNotExist(err) {
		return fmt.Errorf("resume file not found: %s", exportInput)
	}

	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if exportStrategy != "" {
		cfg.ExportStrategy = exportStrategy
	}
	exporter, err := export.New(cfg.ExportStrategy, exportOptions(cfg))
	if err != nil {
		return err
	}
	heights, err := loadHeights(cfg)
	if err != nil {
		return err
	}

	resume, report, err := readResume(exportInput)
	if err != nil {
		return err
	}
	lay, tmpl, err := paginateResume(resume, heights, cfg, exportTemplate)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, exportTimeout)
	defer cancel()

	doc := &export.Document{Resume: resume, Layout: lay, Template: tmpl}
	if exportHTML != "" {
		// render once; the exporter reuses doc.HTML
		doc.HTML, err = rendering.RenderDocument(resume, lay, tmpl)
		if err != nil {
			return fmt.Errorf("failed to render HTML: %w", err)
		}
	}
	var result *export.Result

	g, gctx := errgroup.WithContext(ctx)
	if exportHTML != "" {
		g.Go(func() error {
			return writeFile(exportHTML, []byte(doc.HTML))
		})
	}
	g.Go(func() error {
		var err error
		result, err = exporter.Export(gctx, doc)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if err := writeFile(exportOutput, result.PDF); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.Verbose {
		printer := observability.NewPrinter(out)
		printer.PrintNormalizeReport(report)
		printer.PrintLayout(lay)
		printer.PrintExport(result)
	}
	_, _ = fmt.Fprintf(out, "Exported %d page(s) with %s strategy\n", result.PageCount, result.Strategy)
	_, _ = fmt.Fprintf(out, "Output: %s\n", exportOutput)
	if result.PageMismatch() {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: PDF has %d page(s), layout has %d\n", result.PageCount, result.ExpectedPages)
	}
	return nil
}

// writeFile writes data, creating the parent directory when needed
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
