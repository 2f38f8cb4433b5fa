// Package layout distributes resume content across printable pages.
package layout

import "fmt"

// TableError represents an invalid or unreadable height table
type TableError struct {
	Message string
	Cause   error
}

func (e *TableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("height table error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("height table error: %s", e.Message)
}

func (e *TableError) Unwrap() error {
	return e.Cause
}
