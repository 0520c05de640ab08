package report

import "fmt"

// ErrorKind classifies a validation error.
type ErrorKind string

const (
	ErrorRequired ErrorKind = "required"
	ErrorFormat   ErrorKind = "format"
	ErrorSize     ErrorKind = "size"
	ErrorType     ErrorKind = "type"
)

// ValidationError describes a single structural defect found in a record.
// It is informational only; it is collected into lists, never returned as
// a Go error, and never persisted.
type ValidationError struct {
	FieldPath string    `json:"fieldPath"`
	Message   string    `json:"message"`
	Kind      ErrorKind `json:"kind"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s (%s)", e.FieldPath, e.Message, e.Kind)
}
