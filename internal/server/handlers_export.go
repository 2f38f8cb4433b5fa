package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/export"
)

// exportTimeout bounds one export, browser startup included
const exportTimeout = 90 * time.Second

// handleExport renders the resume to PDF. ?strategy= overrides the server's
// export strategy for this request.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	rec, err := s.resumeFromPath(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	exporter := s.exporter
	if strategy := r.URL.Query().Get("strategy"); strategy != "" {
		exporter, err = export.New(strategy, s.exportOpts)
		if err != nil {
			s.errorFromErr(w, &ErrValidation{Field: "strategy", Message: err.Error()})
			return
		}
	}

	lay, tmpl, err := s.paginate(rec.Resume)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), exportTimeout)
	defer cancel()

	start := time.Now()
	result, err := exporter.Export(ctx, &export.Document{Resume: rec.Resume, Layout: lay, Template: tmpl})
	if err != nil {
		if r.Context().Err() != nil {
			log.Printf("[server] export of %s abandoned: client went away", rec.ID)
			return
		}
		s.errorFromErr(w, err)
		return
	}
	log.Printf("[server] exported %s with %s: %d pages (layout %d) in %v",
		rec.ID, result.Strategy, result.PageCount, result.ExpectedPages, time.Since(start))

	exportRec := &db.ExportRecord{
		ResumeID:      rec.ID,
		Strategy:      result.Strategy,
		PageCount:     result.PageCount,
		ExpectedPages: result.ExpectedPages,
		SizeBytes:     len(result.PDF),
	}
	if err := s.store.RecordExport(r.Context(), exportRec); err != nil {
		log.Printf("[server] failed to record export of %s: %v", rec.ID, err)
	}

	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdfFilename(rec.Resume.Personal.FullName)))
	h.Set("Content-Length", strconv.Itoa(len(result.PDF)))
	h.Set("X-Page-Count", strconv.Itoa(result.PageCount))
	h.Set("X-Expected-Pages", strconv.Itoa(result.ExpectedPages))
	h.Set("X-Export-Strategy", result.Strategy)
	if result.PageMismatch() {
		h.Set("X-Page-Mismatch", "true")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.PDF); err != nil {
		s.logWriteError(err)
	}
}

// handleListExports returns the export history of a resume, newest first
func (s *Server) handleListExports(w http.ResponseWriter, r *http.Request) {
	rec, err := s.resumeFromPath(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	exports, err := s.store.ListExports(r.Context(), rec.ID)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	if exports == nil {
		exports = []db.ExportRecord{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"exports": exports, "count": len(exports)})
}

// pdfFilename derives a download name like "grace-hopper.pdf"
func pdfFilename(fullName string) string {
	var sb strings.Builder
	dash := false
	for _, c := range strings.ToLower(fullName) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			sb.WriteRune(c)
			dash = false
		case sb.Len() > 0 && !dash:
			sb.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(sb.String(), "-")
	if name == "" {
		name = "resume"
	}
	return name + ".pdf"
}
