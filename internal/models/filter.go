package models

import (
	"errors"
	"fmt"
	"strings"
)

// SortOrder controls how siblings are ordered during a scan
type SortOrder string

// Supported sort orders
const (
	SortByPath   SortOrder = "path"   // Byte order of the entry name (default)
	SortByName   SortOrder = "name"   // Case-folded base name, byte order on ties
	SortByRecent SortOrder = "recent" // Newest modification time first
)

// ErrNoEntryKind is returned when a filter selects neither files nor directories
var ErrNoEntryKind = errors.New("at least one of directories or files must be included")

// ParseSortOrder converts a user-supplied string into a SortOrder.
// An empty string yields SortByPath.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByPath:
		return SortByPath, nil
	case SortByName:
		return SortByName, nil
	case SortByRecent:
		return SortByRecent, nil
	default:
		return "", fmt.Errorf("invalid sort order %q, must be one of: path, name, recent", s)
	}
}

// ScanFilter selects which entries of a tree become candidates
type ScanFilter struct {
	IncludeDirectories bool      // Emit directory entries
	IncludeFiles       bool      // Emit file entries whose base name matches NamePattern
	NamePattern        string    // Case-insensitive, unanchored regular expression
	Order              SortOrder // Sibling ordering
	RespectGitignore   bool      // Skip entries ignored by <root>/.gitignore
}

// Validate checks that the filter can produce candidates at all
func (f ScanFilter) Validate() error {
	if !f.IncludeDirectories && !f.IncludeFiles {
		return ErrNoEntryKind
	}
	if _, err := ParseSortOrder(string(f.Order)); err != nil {
		return err
	}
	return nil
}
