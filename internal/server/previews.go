package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/navigator"
)

// maxPreviewSessions bounds open previews; the least recently used is evicted
const maxPreviewSessions = 1000

// PreviewState is the navigator position of a preview session
type PreviewState struct {
	ID         string `json:"id"`
	ResumeID   string `json:"resume_id"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	IsFirst    bool   `json:"is_first"`
	IsLast     bool   `json:"is_last"`
}

// previewSession is one on-screen preview of a resume
type previewSession struct {
	id       uuid.UUID
	resumeID uuid.UUID
	nav      *navigator.Navigator

	mu          sync.Mutex
	lastUsed    time.Time
	subscribers map[int]chan PreviewState
	nextSub     int
	closed      bool
}

func newPreviewSession(resumeID uuid.UUID, totalPages int) *previewSession {
	sess := &previewSession{
		id:          uuid.New(),
		resumeID:    resumeID,
		nav:         navigator.New(totalPages),
		lastUsed:    time.Now(),
		subscribers: make(map[int]chan PreviewState),
	}
	sess.nav.OnChange(func(_, _ int) { sess.broadcast() })
	return sess
}

// state reads the navigator once so page and total are consistent
func (p *previewSession) state() PreviewState {
	cur, total := p.nav.State()
	return PreviewState{
		ID:         p.id.String(),
		ResumeID:   p.resumeID.String(),
		Page:       cur,
		TotalPages: total,
		IsFirst:    cur == 0,
		IsLast:     cur == total-1,
	}
}

// subscribe returns a channel receiving the latest state after each change.
// Slow readers only ever see the newest state.
func (p *previewSession) subscribe() (<-chan PreviewState, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan PreviewState, 1)
	if p.closed {
		close(ch)
		return ch, func() {}
	}
	id := p.nextSub
	p.nextSub++
	p.subscribers[id] = ch

	return ch, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if c, ok := p.subscribers[id]; ok {
			delete(p.subscribers, id)
			close(c)
		}
	}
}

func (p *previewSession) broadcast() {
	st := p.state()

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range p.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}

func (p *previewSession) touch() {
	p.mu.Lock()
	p.lastUsed = time.Now()
	p.mu.Unlock()
}

func (p *previewSession) close() {
	p.nav.OnChange(nil)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for id, ch := range p.subscribers {
		delete(p.subscribers, id)
		close(ch)
	}
}

// previewRegistry holds the open preview sessions
type previewRegistry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*previewSession
}

func newPreviewRegistry() *previewRegistry {
	return &previewRegistry{sessions: make(map[uuid.UUID]*previewSession)}
}

func (r *previewRegistry) create(resumeID uuid.UUID, totalPages int) *previewSession {
	sess := newPreviewSession(resumeID, totalPages)

	r.mu.Lock()
	var evicted *previewSession
	if len(r.sessions) >= maxPreviewSessions {
		evicted = r.oldestLocked()
		delete(r.sessions, evicted.id)
	}
	r.sessions[sess.id] = sess
	r.mu.Unlock()

	if evicted != nil {
		evicted.close()
	}
	return sess
}

func (r *previewRegistry) oldestLocked() *previewSession {
	var oldest *previewSession
	var oldestAt time.Time
	for _, sess := range r.sessions {
		sess.mu.Lock()
		at := sess.lastUsed
		sess.mu.Unlock()
		if oldest == nil || at.Before(oldestAt) {
			oldest, oldestAt = sess, at
		}
	}
	return oldest
}

func (r *previewRegistry) get(id uuid.UUID) (*previewSession, bool) {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	r.mu.Unlock()
	if ok {
		sess.touch()
	}
	return sess, ok
}

func (r *previewRegistry) remove(id uuid.UUID) bool {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		sess.close()
	}
	return ok
}

// removeResume closes every preview of a resume and returns how many there were
func (r *previewRegistry) removeResume(resumeID uuid.UUID) int {
	r.mu.Lock()
	var closing []*previewSession
	for id, sess := range r.sessions {
		if sess.resumeID == resumeID {
			closing = append(closing, sess)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, sess := range closing {
		sess.close()
	}
	return len(closing)
}

func (r *previewRegistry) closeAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[uuid.UUID]*previewSession)
	r.mu.Unlock()

	for _, sess := range all {
		sess.close()
	}
}

func (r *previewRegistry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
