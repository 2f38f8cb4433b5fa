package server

import (
	"net/http"

	"github.com/jonathan/resume-builder/internal/layout"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

// TemplateInfo describes one registered template
type TemplateInfo struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Capacity    float64 `json:"capacity"`
	Default     bool    `json:"default"`
}

// LayoutItem is one content item as placed on a page
type LayoutItem struct {
	Key     string        `json:"key"`
	Section types.Section `json:"section"`
	Height  float64       `json:"height"`
}

// LayoutPage is one page of a layout
type LayoutPage struct {
	Index       int          `json:"index"`
	Left        []LayoutItem `json:"left"`
	Right       []LayoutItem `json:"right"`
	LeftHeight  float64      `json:"left_height"`
	RightHeight float64      `json:"right_height"`
}

// LayoutResponse is the paginated form of a resume
type LayoutResponse struct {
	ResumeID   string            `json:"resume_id"`
	Template   string            `json:"template"`
	Capacity   float64           `json:"capacity"`
	TotalPages int               `json:"total_pages"`
	Pages      []LayoutPage      `json:"pages"`
	Overflows  []layout.Overflow `json:"overflows"`
}

// handleListTemplates returns the registered templates
func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	all := rendering.All()
	out := make([]TemplateInfo, len(all))
	for i, t := range all {
		out[i] = TemplateInfo{
			Name:        t.Name,
			Description: t.Description,
			Capacity:    t.Capacity,
			Default:     t.Name == rendering.DefaultTemplate,
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"templates": out})
}

// handleGetLayout paginates a resume and returns page contents and overflows
func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	rec, err := s.resumeFromPath(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	lay, _, err := s.paginate(rec.Resume)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	resp := LayoutResponse{
		ResumeID:   rec.ID.String(),
		Template:   lay.Template,
		Capacity:   lay.Capacity,
		TotalPages: lay.TotalPages,
		Pages:      make([]LayoutPage, len(lay.Pages)),
		Overflows:  layout.CheckCapacity(lay.Pages, lay.Capacity),
	}
	if resp.Overflows == nil {
		resp.Overflows = []layout.Overflow{}
	}
	for i, page := range lay.Pages {
		resp.Pages[i] = LayoutPage{
			Index:       i,
			Left:        layoutItems(page.LeftItems),
			Right:       layoutItems(page.RightItems),
			LeftHeight:  page.Height(types.ColumnLeft),
			RightHeight: page.Height(types.ColumnRight),
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGetDocument renders every page of a resume as one HTML document
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	rec, err := s.resumeFromPath(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	lay, tmpl, err := s.paginate(rec.Resume)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	html, err := rendering.RenderDocument(rec.Resume, lay, tmpl)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	s.htmlResponse(w, html)
}

// paginate runs a fresh distribution for the resume's template.
// Capacity precedence: server page capacity, then template, then height table.
func (s *Server) paginate(resume *types.Resume) (*types.Layout, *rendering.Template, error) {
	tmpl, err := rendering.Lookup(resume.Template)
	if err != nil {
		return nil, nil, err
	}
	opts := tmpl.LayoutOptions()
	if s.capacity > 0 {
		opts.Capacity = s.capacity
	}
	return layout.Paginate(resume, s.heights, opts), tmpl, nil
}

func (s *Server) htmlResponse(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		s.logWriteError(err)
	}
}

func layoutItems(items []types.ContentItem) []LayoutItem {
	out := make([]LayoutItem, len(items))
	for i, it := range items {
		out[i] = LayoutItem{Key: it.Key, Section: it.Section, Height: it.HeightCost}
	}
	return out
}
