package rendering

import (
	_ "embed"
	"sort"

	"github.com/jonathan/resume-builder/internal/layout"
	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultTemplate is used when no template is selected
const DefaultTemplate = "classic"

// Template is a registered visual template
type Template struct {
	Name        string
	Description string
	Stylesheet  string
	// Capacity is the per-column page budget; zero uses the height table's
	Capacity float64
	// Columns moves sections to a different column than the height table says
	Columns map[types.Section]types.Column
}

//go:embed templates/classic.css
var classicCSS string

//go:embed templates/modern.css
var modernCSS string

//go:embed templates/compact.css
var compactCSS string

var registry = map[string]*Template{
	"classic": {
		Name:        "classic",
		Description: "Two columns, contact details in a left sidebar",
		Stylesheet:  classicCSS,
		Capacity:    layout.DefaultCapacity,
	},
	"modern": {
		Name:        "modern",
		Description: "Accent sidebar that also carries certifications",
		Stylesheet:  modernCSS,
		Capacity:    layout.DefaultCapacity,
		Columns: map[types.Section]types.Column{
			types.SectionCertifications: types.ColumnLeft,
		},
	},
	"compact": {
		Name:        "compact",
		Description: "Smaller type that fits more content per page",
		Stylesheet:  compactCSS,
		Capacity:    60,
	},
}

// Lookup returns the template registered under name. An empty name selects
// the default template.
func Lookup(name string) (*Template, error) {
	if name == "" {
		name = DefaultTemplate
	}
	t, ok := registry[name]
	if !ok {
		return nil, &UnknownTemplateError{Name: name}
	}
	return t, nil
}

// Exists reports an error for unregistered names. It is the shape expected by
// editor.WithTemplateCheck.
func Exists(name string) error {
	_, err := Lookup(name)
	return err
}

// Names lists the registered templates in alphabetical order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every registered template in name order
func All() []*Template {
	names := Names()
	out := make([]*Template, len(names))
	for i, name := range names {
		out[i] = registry[name]
	}
	return out
}

// LayoutOptions returns the pagination options this template implies
func (t *Template) LayoutOptions() layout.Options {
	return layout.Options{
		Template: t.Name,
		Capacity: t.Capacity,
		Columns:  t.Columns,
	}
}
