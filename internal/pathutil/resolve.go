// Package pathutil turns selector answers into filesystem paths.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolve joins a normalized root and a root-relative candidate.
// It does not touch the filesystem: the candidate is trusted to be one the
// scanner emitted for the same root.
func Resolve(root, selected string) string {
	if root == "/" {
		return "/" + selected
	}
	return root + "/" + selected
}

// NormalizeRoot makes root absolute, resolves symlinks and strips any
// trailing separator, so Resolve never produces a doubled slash.
func NormalizeRoot(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", fmt.Errorf("root directory is empty")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to make %s absolute: %w", root, err)
	}

	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return "", fmt.Errorf("failed to access %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", root)
	}

	// filepath.Clean already removed trailing separators except for "/"
	return filepath.Clean(canonical), nil
}
