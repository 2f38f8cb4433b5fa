// Package db provides PostgreSQL storage for resumes and their export history.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-builder/internal/types"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping checks that the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Migrate creates the tables if they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", i+1, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS resumes (
		id          UUID PRIMARY KEY,
		template    TEXT NOT NULL DEFAULT '',
		content     JSONB NOT NULL,
		version     INTEGER NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS resume_exports (
		id              UUID PRIMARY KEY,
		resume_id       UUID NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
		strategy        TEXT NOT NULL,
		page_count      INTEGER NOT NULL,
		expected_pages  INTEGER NOT NULL,
		size_bytes      INTEGER NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_resume_exports_resume ON resume_exports (resume_id, created_at DESC)`,
}

// SaveResume inserts or updates a resume. A nil ID is assigned a new one.
func (db *DB) SaveResume(ctx context.Context, rec *ResumeRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	content, err := json.Marshal(rec.Resume)
	if err != nil {
		return fmt.Errorf("failed to marshal resume: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO resumes (id, template, content, version)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET template = $2, content = $3, version = $4, updated_at = NOW()
		 RETURNING created_at, updated_at`,
		rec.ID, rec.Template(), content, rec.Version,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save resume: %w", err)
	}
	return nil
}

// GetResume retrieves a resume by ID. It returns nil, nil when none exists.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*ResumeRecord, error) {
	rec, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT id, content, version, created_at, updated_at FROM resumes WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return rec, nil
}

// ListResumes retrieves the most recently updated resumes
func (db *DB) ListResumes(ctx context.Context, limit int) ([]ResumeRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, content, version, created_at, updated_at
		 FROM resumes ORDER BY updated_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var out []ResumeRecord
	for rows.Next() {
		rec, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// DeleteResume removes a resume and its export history.
// It reports whether a resume was deleted.
func (db *DB) DeleteResume(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete resume: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RecordExport stores one export run
func (db *DB) RecordExport(ctx context.Context, rec *ExportRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resume_exports (id, resume_id, strategy, page_count, expected_pages, size_bytes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		rec.ID, rec.ResumeID, rec.Strategy, rec.PageCount, rec.ExpectedPages, rec.SizeBytes,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}
	return nil
}

// ListExports retrieves the export history of a resume, newest first
func (db *DB) ListExports(ctx context.Context, resumeID uuid.UUID) ([]ExportRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, strategy, page_count, expected_pages, size_bytes, created_at
		 FROM resume_exports WHERE resume_id = $1 ORDER BY created_at DESC`,
		resumeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	out := []ExportRecord{}
	for rows.Next() {
		var rec ExportRecord
		if err := rows.Scan(&rec.ID, &rec.ResumeID, &rec.Strategy, &rec.PageCount, &rec.ExpectedPages, &rec.SizeBytes, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanResume(row pgx.Row) (*ResumeRecord, error) {
	var rec ResumeRecord
	var content []byte
	if err := row.Scan(&rec.ID, &content, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Resume = &types.Resume{}
	if err := json.Unmarshal(content, rec.Resume); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume %s: %w", rec.ID, err)
	}
	return &rec, nil
}
