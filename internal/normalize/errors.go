// Package normalize maps loosely shaped resume payloads onto the canonical types.
//
// Backends and older clients disagree on field names ("institution" vs
// "school_name", "start_date" vs "from"). Every mapper accepts the known
// aliases and reports anything it cannot use as a *ShapeError instead of
// silently substituting a default.
package normalize

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/types"
)

// ShapeError describes a payload that does not match any accepted shape
type ShapeError struct {
	Section types.Section
	// Index is the entry position within a list section, or -1
	Index  int
	Field  string
	Reason string
}

func (e *ShapeError) Error() string {
	path := string(e.Section)
	if e.Index >= 0 {
		path += fmt.Sprintf("[%d]", e.Index)
	}
	if e.Field != "" {
		if path != "" {
			path += "."
		}
		path += e.Field
	}
	if path == "" {
		path = "(root)"
	}
	return fmt.Sprintf("shape error: %s: %s", path, e.Reason)
}

// Report collects the shape errors found while normalizing a whole resume.
// Entries that fail are dropped from the result; the rest is kept.
type Report struct {
	Errors []*ShapeError
}

// OK reports whether normalization found no problems
func (r *Report) OK() bool {
	return r == nil || len(r.Errors) == 0
}

// Err joins all shape errors, or returns nil when there are none
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Warnings returns the error messages, suitable for API responses
func (r *Report) Warnings() []string {
	if r.OK() {
		return []string{}
	}
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Error()
	}
	return out
}

func (r *Report) add(err error) {
	var shapeErr *ShapeError
	if errors.As(err, &shapeErr) {
		r.Errors = append(r.Errors, shapeErr)
		return
	}
	r.Errors = append(r.Errors, &ShapeError{Index: -1, Reason: err.Error()})
}
