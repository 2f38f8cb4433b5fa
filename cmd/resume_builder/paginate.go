package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-builder/internal/layout"
	"github.com/jonathan/resume-builder/internal/navigator"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/spf13/cobra"
)

var paginateCmd = &cobra.Command{
	Use:   "paginate",
	Short: "Distribute a resume's content into pages",
	Long:  "Estimates the height of every resume section, packs both columns greedily into fixed-capacity pages and prints the resulting layout.",
	RunE:  runPaginate,
}

var (
	paginateInput    string
	paginateTemplate string
	paginateOutput   string
	paginatePage     int
)

// layoutFile is the JSON written by --out
type layoutFile struct {
	Template   string            `json:"template"`
	Capacity   float64           `json:"capacity"`
	TotalPages int               `json:"total_pages"`
	Pages      []layoutFilePage  `json:"pages"`
	Overflows  []layout.Overflow `json:"overflows"`
}

type layoutFilePage struct {
	Left  []string `json:"left"`
	Right []string `json:"right"`
}

func init() {
	paginateCmd.Flags().StringVarP(&paginateInput, "in", "i", "", "Path to resume JSON file (required)")
	paginateCmd.Flags().StringVarP(&paginateTemplate, "template", "t", "", "Template to paginate for (default: the resume's own)")
	paginateCmd.Flags().StringVarP(&paginateOutput, "out", "o", "", "Path to write the layout JSON (optional)")
	paginateCmd.Flags().IntVar(&paginatePage, "page", 0, "Zero-based page to show in the navigator summary")

	if err := paginateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(paginateCmd)
}

func runPaginate(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(paginateInput); os.IsNotExist(err) {
		return fmt.Errorf("resume file not found: %s", paginateInput)
	}

	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	heights, err := loadHeights(cfg)
	if err != nil {
		return err
	}

	resume, report, err := readResume(paginateInput)
	if err != nil {
		return err
	}
	lay, _, err := paginateResume(resume, heights, cfg, paginateTemplate)
	if err != nil {
		return err
	}
	overflows := layout.CheckCapacity(lay.Pages, lay.Capacity)

	out := cmd.OutOrStdout()
	if cfg.Verbose {
		printer := observability.NewPrinter(out)
		printer.PrintNormalizeReport(report)
		printer.PrintLayout(lay)
		printer.PrintOverflows(overflows)

		nav := navigator.New(lay.TotalPages)
		nav.GoTo(paginatePage)
		printer.PrintNavigator(nav.State())
	}

	if paginateOutput != "" {
		if err := writeLayout(paginateOutput, lay, overflows); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(out, "Paginated %q into %d page(s) (capacity %.1f)\n", resume.Personal.FullName, lay.TotalPages, lay.Capacity)
	if violations := layout.Violations(overflows); len(violations) > 0 {
		return fmt.Errorf("layout has %d column(s) over capacity", len(violations))
	}
	return nil
}

func writeLayout(path string, lay *types.Layout, overflows []layout.Overflow) error {
	file := layoutFile{
		Template:   lay.Template,
		Capacity:   lay.Capacity,
		TotalPages: lay.TotalPages,
		Pages:      make([]layoutFilePage, len(lay.Pages)),
		Overflows:  overflows,
	}
	if file.Overflows == nil {
		file.Overflows = []layout.Overflow{}
	}
	for i, page := range lay.Pages {
		file.Pages[i] = layoutFilePage{Left: keys(page.LeftItems), Right: keys(page.RightItems)}
	}

	// Ensure output directory exists
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	jsonBytes, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal layout to JSON: %w", err)
	}
	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write layout to output file: %w", err)
	}
	return nil
}

func keys(items []types.ContentItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key
	}
	return out
}
