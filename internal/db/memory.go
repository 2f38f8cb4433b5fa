package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// now is replaced in tests
var now = time.Now

// Memory is an in-process store with the same behavior as DB. It is used
// when no database is configured.
type Memory struct {
	mu      sync.RWMutex
	resumes map[uuid.UUID]ResumeRecord
	exports map[uuid.UUID][]ExportRecord
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		resumes: make(map[uuid.UUID]ResumeRecord),
		exports: make(map[uuid.UUID][]ExportRecord),
	}
}

// Ping always succeeds
func (m *Memory) Ping(context.Context) error { return nil }

// SaveResume inserts or updates a resume. A nil ID is assigned a new one.
func (m *Memory) SaveResume(_ context.Context, rec *ResumeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	ts := now()
	if existing, ok := m.resumes[rec.ID]; ok {
		rec.CreatedAt = existing.CreatedAt
	} else {
		rec.CreatedAt = ts
	}
	rec.UpdatedAt = ts

	stored := *rec
	stored.Resume = rec.Resume.Clone()
	m.resumes[rec.ID] = stored
	return nil
}

// GetResume retrieves a resume by ID. It returns nil, nil when none exists.
func (m *Memory) GetResume(_ context.Context, id uuid.UUID) (*ResumeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.resumes[id]
	if !ok {
		return nil, nil
	}
	rec.Resume = rec.Resume.Clone()
	return &rec, nil
}

// ListResumes retrieves the most recently updated resumes
func (m *Memory) ListResumes(_ context.Context, limit int) ([]ResumeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ResumeRecord, 0, len(m.resumes))
	for _, rec := range m.resumes {
		rec.Resume = rec.Resume.Clone()
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteResume removes a resume and its export history.
// It reports whether a resume was deleted.
func (m *Memory) DeleteResume(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.resumes[id]; !ok {
		return false, nil
	}
	delete(m.resumes, id)
	delete(m.exports, id)
	return true, nil
}

// RecordExport stores one export run
func (m *Memory) RecordExport(_ context.Context, rec *ExportRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.resumes[rec.ResumeID]; !ok {
		return fmt.Errorf("failed to record export: resume %s not found", rec.ResumeID)
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = now()
	m.exports[rec.ResumeID] = append(m.exports[rec.ResumeID], *rec)
	return nil
}

// ListExports retrieves the export history of a resume, newest first
func (m *Memory) ListExports(_ context.Context, resumeID uuid.UUID) ([]ExportRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.exports[resumeID]
	out := make([]ExportRecord, len(list))
	for i, rec := range list {
		out[len(list)-1-i] = rec
	}
	return out, nil
}

// Close is a no-op; it lets Memory stand in for DB
func (m *Memory) Close() {}
