package models

// PruneState is a state of the delete-and-prune sequence
type PruneState int

const (
	PruneIdle PruneState = iota
	PruneConfirming
	PruneAborted
	PruneDeleting
	PrunePruning
	PruneDone
)

// String returns the string representation of PruneState.
func (s PruneState) String() string {
	switch s {
	case PruneIdle:
		return "idle"
	case PruneConfirming:
		return "confirming"
	case PruneAborted:
		return "aborted"
	case PruneDeleting:
		return "deleting"
	case PrunePruning:
		return "pruning"
	case PruneDone:
		return "done"
	default:
		return "unknown"
	}
}

// PruneResult reports what a delete-and-prune sequence did
type PruneResult struct {
	State     PruneState // Terminal state: PruneAborted or PruneDone
	Deleted   bool       // The selected path itself was removed
	DeleteErr error      // Why the selected path could not be removed (informational)
	Removed   []string   // Ancestor directories removed, innermost first
	StoppedAt string     // Directory whose removal ended the loop, if any
}

// Outcome is the result of one pick-view-prune run
type Outcome struct {
	RunID    string       // Identifier recorded in history
	Selected string       // Candidate chosen in the selector, relative to root
	Path     string       // Resolved absolute path
	ExitCode int          // Viewer exit status
	Prune    *PruneResult // Nil unless removal was offered
}
