package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/normalize"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// MutationResponse is returned by every request that changes a resume
type MutationResponse struct {
	ID       string   `json:"id"`
	Version  int      `json:"version"`
	Template string   `json:"template"`
	Warnings []string `json:"warnings"`
}

// ResumeSummary is one entry of the resume list
type ResumeSummary struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Template  string `json:"template"`
	Version   int    `json:"version"`
	UpdatedAt string `json:"updated_at"`
}

// TemplateRequest selects a template
type TemplateRequest struct {
	Template string `json:"template" validate:"required"`
}

// handleCreateResume normalizes a loosely shaped resume document and stores it.
// With ?strict=true the document must also satisfy the resume JSON schema.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	if strict, _ := strconv.ParseBool(r.URL.Query().Get("strict")); strict {
		if err := schemas.ValidateResume(body); err != nil {
			s.errorFromErr(w, err)
			return
		}
	}

	var raw map[string]any
	if err := decodeBytes(body, &raw); err != nil {
		s.errorFromErr(w, err)
		return
	}
	if raw == nil {
		s.errorResponse(w, http.StatusBadRequest, "resume must be a JSON object")
		return
	}

	resume, report := normalize.Resume(raw)
	if resume.Personal.FullName == "" {
		s.errorFromErr(w, &ErrValidation{Field: "personal.full_name", Message: "required"})
		return
	}

	st := newEditor(nil)
	snap, err := st.Load(resume)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	rec := &db.ResumeRecord{Resume: snap.Resume, Version: 1}
	if err := s.store.SaveResume(r.Context(), rec); err != nil {
		s.errorFromErr(w, err)
		return
	}

	log.Printf("[server] created resume %s (%d warnings)", rec.ID, len(report.Errors))
	s.jsonResponse(w, http.StatusCreated, mutationResponse(rec, report.Warnings()))
}

// handleGetResume returns a stored resume
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	rec, err := s.resumeFromPath(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleListResumes returns the most recently updated resumes
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.errorFromErr(w, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = min(n, maxListLimit)
	}

	records, err := s.store.ListResumes(r.Context(), limit)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	out := make([]ResumeSummary, 0, len(records))
	for _, rec := range records {
		summary := ResumeSummary{
			ID:        rec.ID.String(),
			Template:  templateName(rec.Template()),
			Version:   rec.Version,
			UpdatedAt: rec.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if rec.Resume != nil {
			summary.FullName = rec.Resume.Personal.FullName
		}
		out = append(out, summary)
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": out, "count": len(out)})
}

// handleDeleteResume deletes a resume, its export history and its previews
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "resume")
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	deleted, err := s.store.DeleteResume(r.Context(), id)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	if !deleted {
		s.errorFromErr(w, &ErrNotFound{Kind: "resume", ID: id.String()})
		return
	}

	closed := s.previews.removeResume(id)
	log.Printf("[server] deleted resume %s (%d previews closed)", id, closed)
	w.WriteHeader(http.StatusNoContent)
}

// handleReplaceSection replaces one section with a loosely shaped payload
func (s *Server) handleReplaceSection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "resume")
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	section := types.Section(r.PathValue("section"))
	if !section.Valid() {
		s.errorFromErr(w, &ErrValidation{Field: "section", Message: "unknown section " + strconv.Quote(string(section))})
		return
	}

	var raw any
	if err := decodeJSON(w, r, &raw); err != nil {
		s.errorFromErr(w, err)
		return
	}

	action, errs := editor.ActionFor(section, raw)
	report := &normalize.Report{}
	for _, e := range errs {
		report.Errors = append(report.Errors, asShapeError(e))
	}
	if action == nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]any{
			"error":    "section payload has an unusable shape",
			"warnings": report.Warnings(),
		})
		return
	}

	rec, err := s.applyAction(r.Context(), id, action)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, mutationResponse(rec, report.Warnings()))
}

// handleRemoveEntry removes one entry of a list section
func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "resume")
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.errorFromErr(w, &ErrValidation{Field: "index", Message: "must be an integer"})
		return
	}

	action := editor.RemoveEntry{Section: types.Section(r.PathValue("section")), Index: index}
	rec, err := s.applyAction(r.Context(), id, action)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, mutationResponse(rec, nil))
}

// handleSelectTemplate switches the resume to another registered template
func (s *Server) handleSelectTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "resume")
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	var req TemplateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorFromErr(w, err)
		return
	}

	rec, err := s.applyAction(r.Context(), id, editor.SelectTemplate{Template: req.Template})
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, mutationResponse(rec, nil))
}

// applyAction runs one editor action against the stored resume and saves the
// result. Edits are serialized so concurrent requests never lose an update.
func (s *Server) applyAction(ctx context.Context, id uuid.UUID, action editor.Action) (*db.ResumeRecord, error) {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	rec, err := s.loadResume(ctx, id)
	if err != nil {
		return nil, err
	}

	st := newEditor(rec.Resume)
	snap, err := st.Dispatch(action)
	if err != nil {
		return nil, err
	}

	rec.Resume = snap.Resume
	rec.Version += snap.Version
	if err := s.store.SaveResume(ctx, rec); err != nil {
		return nil, err
	}
	log.Printf("[server] resume %s: %s -> version %d", id, action.Name(), rec.Version)
	return rec, nil
}

// loadResume fetches a resume, turning a missing row into ErrNotFound
func (s *Server) loadResume(ctx context.Context, id uuid.UUID) (*db.ResumeRecord, error) {
	rec, err := s.store.GetResume(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &ErrNotFound{Kind: "resume", ID: id.String()}
	}
	if rec.Resume == nil {
		rec.Resume = &types.Resume{}
	}
	return rec, nil
}

// resumeFromPath loads the resume named by the {id} path value
func (s *Server) resumeFromPath(r *http.Request) (*db.ResumeRecord, error) {
	id, err := pathID(r, "resume")
	if err != nil {
		return nil, err
	}
	return s.loadResume(r.Context(), id)
}

func newEditor(initial *types.Resume) *editor.Store {
	return editor.NewStore(initial, editor.WithTemplateCheck(rendering.Exists))
}

func mutationResponse(rec *db.ResumeRecord, warnings []string) MutationResponse {
	if warnings == nil {
		warnings = []string{}
	}
	return MutationResponse{
		ID:       rec.ID.String(),
		Version:  rec.Version,
		Template: templateName(rec.Template()),
		Warnings: warnings,
	}
}

// templateName resolves the empty name to the default template
func templateName(name string) string {
	if name == "" {
		return rendering.DefaultTemplate
	}
	return name
}

func asShapeError(err error) *normalize.ShapeError {
	var se *normalize.ShapeError
	if errors.As(err, &se) {
		return se
	}
	return &normalize.ShapeError{Index: -1, Reason: err.Error()}
}
