// Package scanner enumerates the candidates offered to the selector.
//
// A scan walks the tree below a root directory and emits every entry that
// passes a models.ScanFilter, as a slash-separated path relative to the root.
//
// # Traversal
//
// Symbolic links are followed when classifying entries, so a link to a
// directory is a directory and is descended. Each directory is descended at
// most once, keyed by its canonical path, which keeps symlink cycles finite:
// the looping link is still an entry but its target is not walked again.
// Dangling links are classified as files.
//
// The root itself is never emitted. Siblings are visited in the order named
// by the filter (path, case-folded name, or newest first) and the walk is
// pre-order, so repeated scans of an unchanged tree are identical.
//
// # Filtering
//
// Directories are emitted when the filter includes directories. Files are
// emitted when the filter includes files and the base name matches the name
// pattern, compiled case-insensitively and unanchored. With RespectGitignore
// set, entries matched by <root>/.gitignore are neither emitted nor descended.
//
// # Errors
//
// A bad pattern, an unreadable root, or an unreadable directory anywhere
// below it abort the scan with a *ScanError. Walk streams candidates through
// a callback and returns the error while the consumer is still attached;
// Scan collects them and returns nothing on failure.
package scanner
