package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureRequestID(t *testing.T, header string) (seen string, echoed string) {
	t.Helper()
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetRequestID(r)
		require.NoError(t, err)
		seen = id
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/templates", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	return seen, w.Header().Get(RequestIDHeader)
}

func TestRequestID_Generated(t *testing.T) {
	seen, echoed := captureRequestID(t, "")

	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, echoed)
}

func TestRequestID_ClientValueKept(t *testing.T) {
	seen, echoed := captureRequestID(t, "trace-123_abc.def")

	assert.Equal(t, "trace-123_abc.def", seen)
	assert.Equal(t, "trace-123_abc.def", echoed)
}

func TestRequestID_InvalidClientValueReplaced(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"spaces", "has spaces inside"},
		{"newline escape", "abc%0d%0aSet-Cookie"},
		{"too long", strings.Repeat("a", maxRequestIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen, echoed := captureRequestID(t, tt.header)

			assert.NotEqual(t, tt.header, seen)
			_, err := uuid.Parse(seen)
			assert.NoError(t, err)
			assert.Equal(t, seen, echoed)
		})
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetRequestID(req)
	assert.Error(t, err)
}

func TestGetRequestID_FromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), RequestIDKey(), "abc"))

	id, err := GetRequestID(req)
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
}
