package layout

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/types"
	"gopkg.in/yaml.v3"
)

// DefaultCapacity is the per-column height budget of one A4 page, in the same
// relative units as the section rules below.
const DefaultCapacity = 50.0

// SectionRule describes how a section turns into content items.
// A section with n entries costs Base + PerEntry*n. When Split is set, every
// entry becomes its own item and the first one also carries Base (the heading).
type SectionRule struct {
	Column   types.Column `yaml:"column" json:"column"`
	Base     float64      `yaml:"base" json:"base"`
	PerEntry float64      `yaml:"per_entry" json:"per_entry"`
	Split    bool         `yaml:"split" json:"split"`
}

// Cost returns the height of a non-split section with n entries
func (r SectionRule) Cost(n int) float64 {
	return r.Base + r.PerEntry*float64(n)
}

// HeightTable is the lookup table of empirical height estimates
type HeightTable struct {
	Capacity float64                       `yaml:"capacity" json:"capacity"`
	Order    []types.Section               `yaml:"order" json:"order"`
	Sections map[types.Section]SectionRule `yaml:"sections" json:"sections"`
}

// DefaultHeightTable returns the built-in calibration
func DefaultHeightTable() *HeightTable {
	return &HeightTable{
		Capacity: DefaultCapacity,
		Order:    append([]types.Section(nil), types.AllSections...),
		Sections: map[types.Section]SectionRule{
			types.SectionContact:        {Column: types.ColumnLeft, Base: 8},
			types.SectionPersonal:       {Column: types.ColumnLeft, Base: 8},
			types.SectionSkills:         {Column: types.ColumnLeft, PerEntry: 1.5},
			types.SectionLanguages:      {Column: types.ColumnLeft, PerEntry: 1.5},
			types.SectionLinks:          {Column: types.ColumnLeft, Base: 10},
			types.SectionAbout:          {Column: types.ColumnRight, Base: 10},
			types.SectionExperience:     {Column: types.ColumnRight, Base: 12, PerEntry: 4, Split: true},
			types.SectionEducation:      {Column: types.ColumnRight, PerEntry: 15, Split: true},
			types.SectionProjects:       {Column: types.ColumnRight, Base: 12, PerEntry: 5, Split: true},
			types.SectionCertifications: {Column: types.ColumnRight, Base: 10, PerEntry: 4, Split: true},
		},
	}
}

// Rule returns the rule for a section and whether one is defined
func (t *HeightTable) Rule(s types.Section) (SectionRule, bool) {
	if t == nil {
		return SectionRule{}, false
	}
	r, ok := t.Sections[s]
	return r, ok
}

// Validate checks that every rule refers to a known section and is non-negative
func (t *HeightTable) Validate() error {
	if t.Capacity <= 0 {
		return &TableError{Message: fmt.Sprintf("capacity must be positive, got %v", t.Capacity)}
	}
	for s, r := range t.Sections {
		if !s.Valid() {
			return &TableError{Message: fmt.Sprintf("unknown section %q", s)}
		}
		if r.Base < 0 || r.PerEntry < 0 {
			return &TableError{Message: fmt.Sprintf("section %q has a negative cost", s)}
		}
	}
	seen := make(map[types.Section]bool, len(t.Order))
	for _, s := range t.Order {
		if !s.Valid() {
			return &TableError{Message: fmt.Sprintf("unknown section %q in order", s)}
		}
		if seen[s] {
			return &TableError{Message: fmt.Sprintf("section %q listed twice in order", s)}
		}
		seen[s] = true
	}
	return nil
}

// ruleOverride is a partial SectionRule; nil fields keep the default
type ruleOverride struct {
	Column   *types.Column `yaml:"column"`
	Base     *float64      `yaml:"base"`
	PerEntry *float64      `yaml:"per_entry"`
	Split    *bool         `yaml:"split"`
}

func (o ruleOverride) apply(r SectionRule) SectionRule {
	if o.Column != nil {
		r.Column = *o.Column
	}
	if o.Base != nil {
		r.Base = *o.Base
	}
	if o.PerEntry != nil {
		r.PerEntry = *o.PerEntry
	}
	if o.Split != nil {
		r.Split = *o.Split
	}
	return r
}

type tableOverride struct {
	Capacity float64                        `yaml:"capacity"`
	Order    []types.Section                `yaml:"order"`
	Sections map[types.Section]ruleOverride `yaml:"sections"`
}

// LoadHeightTable reads a YAML height table. Values in the file override the
// defaults field by field; anything not mentioned keeps its default.
func LoadHeightTable(path string) (*HeightTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &TableError{Message: fmt.Sprintf("failed to read %s", path), Cause: err}
	}
	return ParseHeightTable(data)
}

// ParseHeightTable parses YAML height table content on top of the defaults
func ParseHeightTable(data []byte) (*HeightTable, error) {
	var override tableOverride
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, &TableError{Message: "failed to parse YAML", Cause: err}
	}

	table := DefaultHeightTable()
	if override.Capacity != 0 {
		table.Capacity = override.Capacity
	}
	if len(override.Order) > 0 {
		table.Order = override.Order
	}
	for s, r := range override.Sections {
		table.Sections[s] = r.apply(table.Sections[s])
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}
