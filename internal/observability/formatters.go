// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/layout"
	"github.com/jonathan/resume-builder/internal/normalize"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintLayout outputs the pages of a layout with each column's items and
// estimated height.
func (p *Printer) PrintLayout(lay *types.Layout) {
	if lay == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Template: %s\n", orDash(lay.Template)))
	sb.WriteString(fmt.Sprintf("Capacity: %.1f\n", lay.Capacity))
	sb.WriteString(fmt.Sprintf("Pages:    %d\n", lay.TotalPages))

	for i, page := range lay.Pages {
		sb.WriteString(fmt.Sprintf("\nPage %d\n", i+1))
		for _, col := range []types.Column{types.ColumnLeft, types.ColumnRight} {
			items := page.Items(col)
			sb.WriteString(fmt.Sprintf("  %-5s %5.1f  %s\n", col, page.Height(col), itemKeys(items)))
		}
	}

	p.printBox("PAGE LAYOUT", strings.TrimRight(sb.String(), "\n"))
}

// PrintOverflows outputs the page columns whose height exceeds capacity.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintOverflows(overflows []layout.Overflow) {
	if len(overflows) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ ALL PAGES WITHIN CAPACITY")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d overflowing columns:\n\n", len(overflows)))
	for _, o := range overflows {
		marker := "⚠"
		note := "over capacity"
		if o.Oversize {
			marker = "•"
			note = "single oversize item"
		}
		sb.WriteString(fmt.Sprintf("%s page %d %s: %.1f / %.1f (%s)\n", marker, o.Page+1, o.Column, o.Height, o.Capacity, note))
	}

	p.printBox("CAPACITY OVERFLOWS", strings.TrimRight(sb.String(), "\n"))
}

// PrintNavigator outputs the cursor position as "page X of Y"
func (p *Printer) PrintNavigator(current, total int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Page %d of %d\n", current+1, total))

	dots := make([]string, 0, total)
	for i := 0; i < total; i++ {
		if i == current {
			dots = append(dots, "●")
		} else {
			dots = append(dots, "○")
		}
	}
	sb.WriteString(strings.Join(dots, " "))

	p.printBox("PREVIEW", sb.String())
}

// PrintExport outputs a summary of an export result
func (p *Printer) PrintExport(result *export.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Strategy: %s\n", result.Strategy))
	sb.WriteString(fmt.Sprintf("Pages:    %d", result.PageCount))
	if result.ExpectedPages > 0 {
		sb.WriteString(fmt.Sprintf(" (layout: %d)", result.ExpectedPages))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Size:     %s", formatBytes(len(result.PDF))))
	if result.PageMismatch() {
		sb.WriteString("\n\n⚠ PDF page count differs from the layout")
	}

	p.printBox("PDF EXPORT", sb.String())
}

// PrintNormalizeReport outputs the shape errors found while normalizing input
func (p *Printer) PrintNormalizeReport(report *normalize.Report) {
	if report.OK() {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Dropped %d malformed entries:\n\n", len(report.Errors)))
	for i, e := range report.Errors {
		if i >= maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(report.Errors)-maxItemsToShow))
			break
		}
		sb.WriteString(fmt.Sprintf("⚠ %s\n", strings.TrimPrefix(e.Error(), "shape error: ")))
	}

	p.printBox("INPUT WARNINGS", strings.TrimRight(sb.String(), "\n"))
}

func itemKeys(items []types.ContentItem) string {
	if len(items) == 0 {
		return "-"
	}
	keys := make([]string, 0, min(len(items), maxItemsToShow))
	for i, it := range items {
		if i >= maxItemsToShow {
			keys = append(keys, fmt.Sprintf("+%d", len(items)-maxItemsToShow))
			break
		}
		keys = append(keys, it.Key)
	}
	return strings.Join(keys, ", ")
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
