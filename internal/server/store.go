package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/db"
)

// Store is the persistence the handlers need. *db.DB and *db.Memory implement it.
type Store interface {
	Ping(ctx context.Context) error
	SaveResume(ctx context.Context, rec *db.ResumeRecord) error
	GetResume(ctx context.Context, id uuid.UUID) (*db.ResumeRecord, error)
	ListResumes(ctx context.Context, limit int) ([]db.ResumeRecord, error)
	DeleteResume(ctx context.Context, id uuid.UUID) (bool, error)
	RecordExport(ctx context.Context, rec *db.ExportRecord) error
	ListExports(ctx context.Context, resumeID uuid.UUID) ([]db.ExportRecord, error)
	Close()
}

var (
	_ Store = (*db.DB)(nil)
	_ Store = (*db.Memory)(nil)
)
