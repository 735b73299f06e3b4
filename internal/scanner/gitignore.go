package scanner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ignoreMatcher decides whether a root-relative entry is skipped.
type ignoreMatcher interface {
	ShouldIgnore(relativePath string, isDir bool) bool
}

// noIgnore never ignores anything.
type noIgnore struct{}

func (noIgnore) ShouldIgnore(string, bool) bool { return false }

// gitignoreMatcher wraps go-git's matcher for the root .gitignore.
type gitignoreMatcher struct {
	matcher gitignore.Matcher
}

// loadGitignore parses <root>/.gitignore. A missing file yields a matcher
// that never ignores.
func loadGitignore(root string) (ignoreMatcher, error) {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return noIgnore{}, nil
		}
		return nil, err
	}

	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}

	return &gitignoreMatcher{matcher: gitignore.NewMatcher(patterns)}, nil
}

// ShouldIgnore matches a slash-separated relative path against the patterns.
func (m *gitignoreMatcher) ShouldIgnore(relativePath string, isDir bool) bool {
	return m.matcher.Match(strings.Split(relativePath, "/"), isDir)
}
