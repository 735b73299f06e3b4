package scanner

import (
	"fmt"
	"strings"
)

// ScanReason classifies why a scan failed.
type ScanReason int

const (
	// ReasonInvalidPattern means the name pattern did not compile.
	ReasonInvalidPattern ScanReason = iota
	// ReasonRootUnreadable means the scan root could not be opened or listed.
	ReasonRootUnreadable
	// ReasonTraversalFailed means a directory below the root could not be read.
	ReasonTraversalFailed
)

// String returns the string representation of ScanReason.
func (r ScanReason) String() string {
	switch r {
	case ReasonInvalidPattern:
		return "invalid pattern"
	case ReasonRootUnreadable:
		return "root unreadable"
	case ReasonTraversalFailed:
		return "traversal failed"
	default:
		return "unknown"
	}
}

// ScanError is returned by Walk and Scan when the tree cannot be enumerated.
type ScanError struct {
	Reason ScanReason // What went wrong
	Path   string     // Pattern or filesystem path involved
	Err    error      // Underlying error
}

// Error implements the error interface for ScanError.
func (e *ScanError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("scan: %s", e.Reason))
	if e.Path != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", e.Path))
	}
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	return sb.String()
}

// Unwrap returns the underlying error for error wrapping support.
func (e *ScanError) Unwrap() error {
	return e.Err
}
