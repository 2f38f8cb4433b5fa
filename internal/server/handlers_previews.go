package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

// keepAliveInterval is how often an idle event stream sends a comment
const keepAliveInterval = 15 * time.Second

// GoToRequest moves a preview to a zero-based page index.
// Out-of-range indexes are clamped, not rejected.
type GoToRequest struct {
	Page *int `json:"page" validate:"required"`
}

// previewView is a preview session refreshed against the stored resume
type previewView struct {
	resume   *types.Resume
	layout   *types.Layout
	template *rendering.Template
}

// handleCreatePreview opens a navigator session on page 0 of a resume
func (s *Server) handleCreatePreview(w http.ResponseWriter, r *http.Request) {
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

	sess := s.previews.create(rec.ID, lay.TotalPages)
	log.Printf("[server] preview %s opened on resume %s (%d pages)", sess.id, rec.ID, lay.TotalPages)
	s.jsonResponse(w, http.StatusCreated, sess.state())
}

// handleGetPreview re-paginates the resume and returns the clamped position
func (s *Server) handleGetPreview(w http.ResponseWriter, r *http.Request) {
	sess, _, err := s.refreshPreview(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.state())
}

// handleDeletePreview closes a preview session
func (s *Server) handleDeletePreview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "preview")
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	if !s.previews.remove(id) {
		s.errorFromErr(w, &ErrNotFound{Kind: "preview", ID: id.String()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleNextPage advances the preview, staying on the last page at the end
func (s *Server) handleNextPage(w http.ResponseWriter, r *http.Request) {
	sess, _, err := s.refreshPreview(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	sess.nav.Next()
	s.jsonResponse(w, http.StatusOK, sess.state())
}

// handlePrevPage goes back one page, staying on page 0 at the start
func (s *Server) handlePrevPage(w http.ResponseWriter, r *http.Request) {
	sess, _, err := s.refreshPreview(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	sess.nav.Prev()
	s.jsonResponse(w, http.StatusOK, sess.state())
}

// handleGoToPage jumps to a page; the index is clamped into range
func (s *Server) handleGoToPage(w http.ResponseWriter, r *http.Request) {
	var req GoToRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorFromErr(w, err)
		return
	}

	sess, _, err := s.refreshPreview(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	sess.nav.GoTo(*req.Page)
	s.jsonResponse(w, http.StatusOK, sess.state())
}

// handlePreviewPage renders only the page the preview is on
func (s *Server) handlePreviewPage(w http.ResponseWriter, r *http.Request) {
	sess, view, err := s.refreshPreview(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	html, err := rendering.RenderPage(view.resume, view.layout, view.template, sess.nav.Current())
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	s.htmlResponse(w, html)
}

// handlePreviewEvents streams the preview position as server-sent events.
// The current state is sent first, then one "page" event per change.
func (s *Server) handlePreviewEvents(w http.ResponseWriter, r *http.Request) {
	sess, _, err := s.refreshPreview(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	ch, unsubscribe := sess.subscribe()
	defer unsubscribe()

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := sse.WriteEvent("page", sess.state()); err != nil {
		return
	}

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case st, ok := <-ch:
			if !ok {
				sse.WriteComplete(sess.id.String(), "closed")
				return
			}
			if err := sse.WriteEvent("page", st); err != nil {
				return
			}
		case <-keepAlive.C:
			if err := sse.WriteComment("keep-alive"); err != nil {
				return
			}
		}
	}
}

// refreshPreview looks up the session, re-paginates its resume and re-clamps
// the navigator to the new page count. A preview whose resume is gone is closed.
func (s *Server) refreshPreview(r *http.Request) (*previewSession, *previewView, error) {
	id, err := pathID(r, "preview")
	if err != nil {
		return nil, nil, err
	}
	sess, ok := s.previews.get(id)
	if !ok {
		return nil, nil, &ErrNotFound{Kind: "preview", ID: id.String()}
	}

	view, err := s.previewView(r.Context(), sess)
	if err != nil {
		var notFound *ErrNotFound
		if errors.As(err, &notFound) {
			s.previews.remove(sess.id)
		}
		return nil, nil, err
	}
	return sess, view, nil
}

func (s *Server) previewView(ctx context.Context, sess *previewSession) (*previewView, error) {
	rec, err := s.loadResume(ctx, sess.resumeID)
	if err != nil {
		return nil, err
	}
	lay, tmpl, err := s.paginate(rec.Resume)
	if err != nil {
		return nil, err
	}

	before, beforeTotal := sess.nav.State()
	after := sess.nav.SetTotal(lay.TotalPages)
	// SetTotal only notifies when the index moves
	if after == before && beforeTotal != lay.TotalPages {
		sess.broadcast()
	}
	return &previewView{resume: rec.Resume, layout: lay, template: tmpl}, nil
}
