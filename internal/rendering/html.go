package rendering

import (
	"embed"
	"fmt"
	"html/template"
	"reflect"
	"strings"
	"sync"

	"github.com/jonathan/resume-builder/internal/layout"
	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// PageClass is the class carried by every rendered page fragment
const PageClass = "resume-page"

// PageID returns the element id of the zero-based page i
func PageID(i int) string {
	return fmt.Sprintf("resume-page-%d", i+1)
}

type documentData struct {
	Title        string
	TemplateName string
	Stylesheet   template.CSS
	Pages        []pageData
}

type pageData struct {
	ID     string
	Number int
	Total  int
	Left   []itemData
	Right  []itemData
}

type itemData struct {
	Key     string
	Section string
	Heading bool
	Title   string
	Entries []any
}

var parseTemplates = sync.OnceValues(func() (*template.Template, error) {
	tmpl, err := template.New("resume").Funcs(template.FuncMap{
		"dateRange": DateRange,
		"join":      JoinNonEmpty,
		"joinList":  strings.Join,
	}).ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse templates", Cause: err}
	}
	return tmpl, nil
})

// RenderDocument renders every page of lay as one HTML document, one
// fragment per page. This is what the rasterizer loads.
func RenderDocument(resume *types.Resume, lay *types.Layout, tmpl *Template) (string, error) {
	if lay == nil {
		return "", &RenderError{Message: "layout is nil"}
	}
	pages := make([]pageData, len(lay.Pages))
	for i, page := range lay.Pages {
		pages[i] = buildPage(page, i, len(lay.Pages))
	}
	return execute(resume, tmpl, pages)
}

// RenderPage renders only page index of lay, for on-screen preview
func RenderPage(resume *types.Resume, lay *types.Layout, tmpl *Template, index int) (string, error) {
	if lay == nil {
		return "", &RenderError{Message: "layout is nil"}
	}
	if index < 0 || index >= len(lay.Pages) {
		return "", &RenderError{Message: fmt.Sprintf("page %d out of range (%d pages)", index, len(lay.Pages))}
	}
	return execute(resume, tmpl, []pageData{buildPage(lay.Pages[index], index, len(lay.Pages))})
}

func execute(resume *types.Resume, tmpl *Template, pages []pageData) (string, error) {
	t, err := parseTemplates()
	if err != nil {
		return "", err
	}
	if tmpl == nil {
		if tmpl, err = Lookup(DefaultTemplate); err != nil {
			return "", err
		}
	}

	data := documentData{
		Title:        "Resume",
		TemplateName: tmpl.Name,
		Stylesheet:   template.CSS(tmpl.Stylesheet),
		Pages:        pages,
	}
	if resume != nil && resume.Personal.FullName != "" {
		data.Title = resume.Personal.FullName
	}

	var sb strings.Builder
	if err := t.ExecuteTemplate(&sb, "document", data); err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return sb.String(), nil
}

func buildPage(page types.Page, index, total int) pageData {
	return pageData{
		ID:     PageID(index),
		Number: index + 1,
		Total:  total,
		Left:   buildItems(page.LeftItems),
		Right:  buildItems(page.RightItems),
	}
}

func buildItems(items []types.ContentItem) []itemData {
	out := make([]itemData, 0, len(items))
	for _, item := range items {
		data := itemData{
			Key:     item.Key,
			Section: string(item.Section),
			Heading: true,
			Title:   SectionTitle(item.Section),
		}
		if block, ok := item.Payload.(layout.Block); ok {
			data.Heading = block.Heading
			data.Entries = entries(block.Value)
		}
		out = append(out, data)
	}
	return out
}

// entries flattens a block value so every partial can range over it
func entries(v any) []any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
