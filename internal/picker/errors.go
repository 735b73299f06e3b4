package picker

import "fmt"

// PickerReason classifies why a selector session could not run.
type PickerReason int

const (
	// ReasonSpawnFailed means a pipe could not be created or the selector
	// process could not be started.
	ReasonSpawnFailed PickerReason = iota
)

// String returns the string representation of PickerReason.
func (r PickerReason) String() string {
	switch r {
	case ReasonSpawnFailed:
		return "spawn failed"
	default:
		return "unknown"
	}
}

// PickerError is returned when the selector subprocess cannot be set up.
type PickerError struct {
	Reason PickerReason
	Cmd    string
	Err    error
}

// Error implements the error interface for PickerError.
func (e *PickerError) Error() string {
	return fmt.Sprintf("picker: %s (%s): %v", e.Reason, e.Cmd, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *PickerError) Unwrap() error {
	return e.Err
}

// writeError marks a failure to write a candidate to the selector, so it can
// be told apart from an error produced by the candidate source itself.
type writeError struct {
	err error
}

func (e *writeError) Error() string {
	return fmt.Sprintf("write candidate: %v", e.err)
}

func (e *writeError) Unwrap() error {
	return e.err
}
