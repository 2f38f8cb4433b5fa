// Package editor holds the resume being edited and applies typed section updates.
package editor

import "fmt"

// ActionError represents an action that cannot be applied to the current state
type ActionError struct {
	Action  string
	Message string
	Cause   error
}

func (e *ActionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("action %s failed: %s: %v", e.Action, e.Message, e.Cause)
	}
	return fmt.Sprintf("action %s failed: %s", e.Action, e.Message)
}

func (e *ActionError) Unwrap() error {
	return e.Cause
}
