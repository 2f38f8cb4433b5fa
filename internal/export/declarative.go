package export

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	declMargin     = 15.0
	declLineHeight = 5.0
	declBodySize   = 10.0
)

// Declarative describes the resume with fpdf and lets it paginate on its own.
// It needs no browser, but its page count is not tied to the layout.
type Declarative struct {
	Verbose bool
}

// Name returns the strategy name
func (d *Declarative) Name() string { return StrategyDeclarative }

// Export writes the resume as a single-column flowing document
func (d *Declarative) Export(ctx context.Context, doc *Document) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil || doc.Resume == nil {
		return nil, &ExportError{Strategy: d.Name(), Message: "document has no resume"}
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(declMargin, declMargin, declMargin)
	pdf.SetAutoPageBreak(true, declMargin)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	r := doc.Resume
	pdf.SetTitle(r.Personal.FullName, true)
	pdf.SetCreator("resume-builder", true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, tr(pageLabel(pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	w := &writer{pdf: pdf, tr: tr}
	w.header(r)
	w.paragraphSection(types.SectionAbout, r.About)

	w.section(types.SectionExperience, len(r.Experience), func(i int) {
		e := r.Experience[i]
		w.entry(e.Role+" - "+e.Company, rendering.JoinNonEmpty(" | ", rendering.DateRange(e.StartDate, e.EndDate), e.Location))
		w.body(e.Description)
		for _, h := range e.Highlights {
			w.bullet(h)
		}
	})
	w.section(types.SectionEducation, len(r.Education), func(i int) {
		e := r.Education[i]
		w.entry(e.Institution, rendering.JoinNonEmpty(" | ", rendering.JoinNonEmpty(", ", e.Degree, e.Field), rendering.DateRange(e.StartDate, e.EndDate), e.Grade))
	})
	w.section(types.SectionProjects, len(r.Projects), func(i int) {
		p := r.Projects[i]
		w.entry(p.Title, rendering.JoinNonEmpty(" | ", strings.Join(p.Stack, ", "), p.URL))
		w.body(p.Description)
	})
	w.section(types.SectionCertifications, len(r.Certifications), func(i int) {
		c := r.Certifications[i]
		w.entry(c.Name, rendering.JoinNonEmpty(" | ", c.Issuer, c.Date))
	})
	if len(r.Skills) > 0 {
		w.paragraphSection(types.SectionSkills, strings.Join(r.Skills, ", "))
	}
	w.section(types.SectionLanguages, len(r.Languages), func(i int) {
		l := r.Languages[i]
		w.bullet(rendering.JoinNonEmpty(" - ", l.Name, l.Proficiency))
	})
	w.section(types.SectionLinks, len(r.Links), func(i int) {
		l := r.Links[i]
		w.bullet(rendering.JoinNonEmpty(": ", l.Label, l.URL))
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &ExportError{Strategy: d.Name(), Message: "failed to write PDF", Cause: err}
	}

	result := &Result{
		PDF:           buf.Bytes(),
		PageCount:     pdf.PageCount(),
		ExpectedPages: expectedPages(doc),
		Strategy:      d.Name(),
	}
	if result.PageMismatch() {
		log.Printf("[export] Declarative PDF has %d page(s), layout has %d", result.PageCount, result.ExpectedPages)
	} else if d.Verbose {
		log.Printf("[export] Declarative PDF ready: %d page(s), %d bytes", result.PageCount, len(result.PDF))
	}
	return result, nil
}

func pageLabel(n int) string {
	return fmt.Sprintf("Page %d of {nb}", n)
}

// writer keeps the small amount of typographic state shared by sections
type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (w *writer) header(r *types.Resume) {
	w.pdf.SetFont("Helvetica", "B", 18)
	w.pdf.MultiCell(0, 9, w.tr(r.Personal.FullName), "", "L", false)
	if r.Personal.Headline != "" {
		w.pdf.SetFont("Helvetica", "", 12)
		w.pdf.MultiCell(0, 6, w.tr(r.Personal.Headline), "", "L", false)
	}
	contact := rendering.JoinNonEmpty(" | ", r.Contact.Email, r.Contact.Phone, r.Contact.Location, r.Contact.Website)
	if contact != "" {
		w.pdf.SetFont("Helvetica", "", 9)
		w.pdf.MultiCell(0, declLineHeight, w.tr(contact), "", "L", false)
	}
	personal := rendering.JoinNonEmpty(" | ", r.Personal.DateOfBirth, r.Personal.Nationality)
	if personal != "" {
		w.pdf.SetFont("Helvetica", "", 9)
		w.pdf.MultiCell(0, declLineHeight, w.tr(personal), "", "L", false)
	}
	w.pdf.Ln(3)
}

func (w *writer) heading(s types.Section) {
	w.pdf.Ln(2)
	w.pdf.SetFont("Helvetica", "B", 12)
	w.pdf.MultiCell(0, 7, w.tr(strings.ToUpper(rendering.SectionTitle(s))), "B", "L", false)
	w.pdf.Ln(1)
}

func (w *writer) section(s types.Section, n int, each func(i int)) {
	if n == 0 {
		return
	}
	w.heading(s)
	for i := 0; i < n; i++ {
		each(i)
	}
}

func (w *writer) paragraphSection(s types.Section, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	w.heading(s)
	w.body(text)
}

func (w *writer) entry(title, meta string) {
	w.pdf.SetFont("Helvetica", "B", 10.5)
	w.pdf.MultiCell(0, 5.5, w.tr(title), "", "L", false)
	if meta != "" {
		w.pdf.SetFont("Helvetica", "I", 9)
		w.pdf.MultiCell(0, declLineHeight, w.tr(meta), "", "L", false)
	}
}

func (w *writer) body(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	w.pdf.SetFont("Helvetica", "", declBodySize)
	w.pdf.MultiCell(0, declLineHeight, w.tr(text), "", "L", false)
}

func (w *writer) bullet(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	w.pdf.SetFont("Helvetica", "", declBodySize)
	w.pdf.SetX(declMargin + 3)
	w.pdf.MultiCell(0, declLineHeight, w.tr("- "+text), "", "L", false)
}
