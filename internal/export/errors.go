// Package export turns a paginated resume into a PDF.
package export

import (
	"errors"
	"fmt"
	"time"
)

// ErrPollTimeout is returned by Poll when the condition never reports done in time
var ErrPollTimeout = errors.New("poll timed out")

// ExportError represents a failure of one export strategy
type ExportError struct {
	Strategy string
	Message  string
	Cause    error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s export failed: %s: %v", e.Strategy, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s export failed: %s", e.Strategy, e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// FragmentsTimeoutError is returned when the rendered document did not expose
// the expected number of page fragments within the poll window
type FragmentsTimeoutError struct {
	Want   int
	Got    int
	Waited time.Duration
}

func (e *FragmentsTimeoutError) Error() string {
	return fmt.Sprintf("expected %d page fragments, found %d after %s", e.Want, e.Got, e.Waited)
}

func (e *FragmentsTimeoutError) Unwrap() error {
	return ErrPollTimeout
}
