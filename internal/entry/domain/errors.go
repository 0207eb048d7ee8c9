package domain

import "fmt"

// ValidationError reports malformed caller input (empty description,
// non-positive interval). Recoverable: the caller corrects the input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
