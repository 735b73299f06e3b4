package action

import "fmt"

// ActionReason represents why a viewer could not be run.
type ActionReason int

const (
	// ReasonSpawnFailed means the program could not be started, including
	// when it is not found on PATH.
	ReasonSpawnFailed ActionReason = iota
)

// String returns the string representation of ActionReason.
func (r ActionReason) String() string {
	switch r {
	case ReasonSpawnFailed:
		return "spawn failed"
	default:
		return "unknown"
	}
}

// ActionError represents a failure to launch the viewer program.
type ActionError struct {
	Reason  ActionReason // What went wrong
	Program string       // Program as given by the user
	Path    string       // Argument it was started with
	Err     error        // Underlying error
}

// Error implements the error interface for ActionError.
func (e *ActionError) Error() string {
	return fmt.Sprintf("run %s %s: %s: %v", e.Program, e.Path, e.Reason, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *ActionError) Unwrap() error {
	return e.Err
}
