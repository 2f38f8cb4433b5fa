package server

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/export"
)

func TestExport(t *testing.T) {
	s := newTestServer(t)
	id := s.createResume(t, resumeDoc("Grace Hopper", 30))

	w := s.do(t, http.MethodPost, "/v1/resumes/"+id+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	h := w.Header()
	assert.Equal(t, "application/pdf", h.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="grace-hopper.pdf"`, h.Get("Content-Disposition"))
	assert.Equal(t, "3", h.Get("X-Page-Count"))
	assert.Equal(t, "3", h.Get("X-Expected-Pages"))
	assert.Equal(t, export.StrategyRaster, h.Get("X-Export-Strategy"))
	assert.Empty(t, h.Get("X-Page-Mismatch"))
	assert.Equal(t, "%PDF-1.4 stub", w.Body.String())
}

func TestExport_PageMismatchHeader(t *testing.T) {
	s := newTestServer(t)
	s.exporter.pages = 4
	id := s.createResume(t, resumeDoc("Grace Hopper", 30))

	w := s.do(t, http.MethodPost, "/v1/resumes/"+id+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Page-Mismatch"))
}

func TestExport_RecordsHistory(t *testing.T) {
	s := newTestServer(t)
	id := s.createResume(t, resumeDoc("Historian", 1))

	for range 2 {
		require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/v1/resumes/"+id+"/export", nil).Code)
	}

	w := s.do(t, http.MethodGet, "/v1/resumes/"+id+"/exports", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[struct {
		Exports []db.ExportRecord `json:"exports"`
		Count   int               `json:"count"`
	}](t, w)
	assert.Equal(t, 2, resp.Count)
	for _, rec := range resp.Exports {
		assert.Equal(t, id, rec.ResumeID.String())
		assert.Equal(t, export.StrategyRaster, rec.Strategy)
		assert.Equal(t, 1, rec.PageCount)
		assert.Equal(t, len("%PDF-1.4 stub"), rec.SizeBytes)
	}
}

func TestListExports_Empty(t *testing.T) {
	s := newTestServer(t)
	id := s.createResume(t, resumeDoc("Nobody Exported", 1))

	w := s.do(t, http.MethodGet, "/v1/resumes/"+id+"/exports", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"exports": [], "count": 0}`, w.Body.String())
}

func TestExport_DeclarativeOverride(t *testing.T) {
	s := newTestServer(t)
	id := s.createResume(t, resumeDoc("Ada Lovelace", 3))

	w := s.do(t, http.MethodPost, "/v1/resumes/"+id+"/export?strategy=declarative", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, export.StrategyDeclarative, w.Header().Get("X-Export-Strategy"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
	assert.Equal(t, "1", w.Header().Get("X-Page-Count"))
	assert.Equal(t, 0, s.exporter.calls)
}

func TestExport_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		query  string
		status int
	}{
		{"unknown strategy", nil, "?strategy=telepathy", http.StatusBadRequest},
		{"strategy failed", &export.ExportError{Strategy: "raster", Message: "browser crashed"}, "", http.StatusBadGateway},
		{"fragments never appeared", &export.ExportError{Strategy: "raster", Message: "not ready", Cause: &export.FragmentsTimeoutError{Want: 1}}, "", http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.exporter.err = tt.err
			id := s.createResume(t, resumeDoc("Unlucky", 1))

			w := s.do(t, http.MethodPost, "/v1/resumes/"+id+"/export"+tt.query, nil)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			history := s.do(t, http.MethodGet, "/v1/resumes/"+id+"/exports", nil)
			assert.JSONEq(t, `{"exports": [], "count": 0}`, history.Body.String())
		})
	}
}

func TestExport_MissingResume(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/v1/resumes/"+uuid.NewString()+"/export", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, s.exporter.calls)
}

func TestPDFFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Grace Hopper", "grace-hopper.pdf"},
		{"  Jean-Luc   Picard ", "jean-luc-picard.pdf"},
		{"O'Brien, Miles", "o-brien-miles.pdf"},
		{"", "resume.pdf"},
		{"日本", "resume.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, pdfFilename(tt.name))
		})
	}
}
