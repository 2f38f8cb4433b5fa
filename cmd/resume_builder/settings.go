package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/layout"
	"github.com/jonathan/resume-builder/internal/normalize"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

// loadSettings reads the optional config file, applies the environment and
// defaults, and validates the result
func loadSettings() (config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.FromEnv(); err != nil {
		return config.Config{}, err
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	merged.Verbose = merged.Verbose || verbose
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

// loadHeights returns the configured height table, or the built-in one
func loadHeights(cfg config.Config) (*layout.HeightTable, error) {
	if cfg.HeightsFile == "" {
		return layout.DefaultHeightTable(), nil
	}
	table, err := layout.LoadHeightTable(cfg.HeightsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load height table: %w", err)
	}
	return table, nil
}

// exportOptions maps config values onto exporter options
func exportOptions(cfg config.Config) export.Options {
	return export.Options{
		ChromePath:   cfg.ChromePath,
		PollInterval: cfg.PollInterval(),
		PollTimeout:  cfg.PollTimeout(),
		Verbose:      cfg.Verbose,
	}
}

// readResume loads a loosely shaped resume JSON file and normalizes it.
// Dropped entries are described in the report; a resume without a name is an error.
func readResume(path string) (*types.Resume, *normalize.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read resume file: %w", err)
	}

	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse resume JSON: %w", err)
	}
	if raw == nil {
		return nil, nil, fmt.Errorf("resume file must contain a JSON object")
	}

	resume, report := normalize.Resume(raw)
	if resume.Personal.FullName == "" {
		return nil, report, fmt.Errorf("resume has no personal.full_name")
	}

	snap, err := editor.NewStore(nil, editor.WithTemplateCheck(rendering.Exists)).Load(resume)
	if err != nil {
		return nil, report, err
	}
	return snap.Resume, report, nil
}

// paginateResume runs the distributor for a template. The template flag wins
// over the resume's own selection, which wins over the config default.
func paginateResume(resume *types.Resume, table *layout.HeightTable, cfg config.Config, template string) (*types.Layout, *rendering.Template, error) {
	name := template
	if name == "" {
		name = resume.Template
	}
	if name == "" {
		name = cfg.Template
	}
	tmpl, err := rendering.Lookup(name)
	if err != nil {
		return nil, nil, err
	}

	opts := tmpl.LayoutOptions()
	if cfg.PageCapacity > 0 {
		opts.Capacity = cfg.PageCapacity
	}
	return layout.Paginate(resume, table, opts), tmpl, nil
}
