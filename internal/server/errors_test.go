package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusInternalServerError},
		{"not found", &ErrNotFound{Kind: "resume", ID: "x"}, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("loading: %w", &ErrNotFound{Kind: "preview"}), http.StatusNotFound},
		{"validation", &ErrValidation{Field: "id", Message: "bad"}, http.StatusBadRequest},
		{"editor action", &editor.ActionError{Action: "remove_entry", Message: "out of range"}, http.StatusBadRequest},
		{"unknown template", &rendering.UnknownTemplateError{Name: "baroque"}, http.StatusBadRequest},
		{"schema", &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "personal", Message: "required"}}}, http.StatusUnprocessableEntity},
		{"poll timeout", &export.ExportError{Strategy: "raster", Message: "no pages", Cause: &export.FragmentsTimeoutError{Want: 2}}, http.StatusGatewayTimeout},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"export failure", &export.ExportError{Strategy: "declarative", Message: "write failed"}, http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "resume not found: abc", (&ErrNotFound{Kind: "resume", ID: "abc"}).Error())
	assert.Equal(t, "validation error: limit - must be positive", (&ErrValidation{Field: "limit", Message: "must be positive"}).Error())
}
