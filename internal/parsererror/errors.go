// Package parsererror defines the recoverable error values returned by the
// message parser and the ingestion validation. Callers are expected to
// branch on these with errors.As rather than treat them as faults.
package parsererror

import "fmt"

// UnparseableError reports that no usable amount could be extracted from a
// message. It is the only condition under which parsing fails; malformed
// metadata tokens degrade to defaults instead.
type UnparseableError struct {
	Text   string
	Reason string
}

func (e *UnparseableError) Error() string {
	return fmt.Sprintf("could not parse message '%s': %s", e.Text, e.Reason)
}

// ValidationError reports a record rejected before persistence, such as a
// receivable entry missing its counterparty or direction.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
