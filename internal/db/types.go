package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/types"
)

// ResumeRecord is a stored resume
type ResumeRecord struct {
	ID        uuid.UUID     `json:"id"`
	Resume    *types.Resume `json:"resume"`
	Version   int           `json:"version"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Template returns the template selected in the stored resume
func (r *ResumeRecord) Template() string {
	if r.Resume == nil {
		return ""
	}
	return r.Resume.Template
}

// ExportRecord is one finished PDF export
type ExportRecord struct {
	ID            uuid.UUID `json:"id"`
	ResumeID      uuid.UUID `json:"resume_id"`
	Strategy      string    `json:"strategy"`
	PageCount     int       `json:"page_count"`
	ExpectedPages int       `json:"expected_pages"`
	SizeBytes     int       `json:"size_bytes"`
	CreatedAt     time.Time `json:"created_at"`
}
