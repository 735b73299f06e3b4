package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/harrison/opener/internal/models"
	"golang.org/x/text/cases"
)

// entry is one classified child of a directory.
type entry struct {
	name    string
	isDir   bool
	modTime time.Time
}

// walker carries the state of a single scan.
type walker struct {
	ctx     context.Context
	filter  models.ScanFilter
	pattern *regexp.Regexp
	ignore  ignoreMatcher
	emit    func(string) error
	visited map[string]bool
	folder  cases.Caser
}

// CompilePattern compiles a name pattern the way the scanner matches it:
// case-insensitive and unanchored.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, &ScanError{Reason: ReasonInvalidPattern, Path: pattern, Err: err}
	}
	return re, nil
}

// Walk traverses root and calls emit for every candidate, in order.
// An error returned by emit stops the walk and is returned unchanged.
func Walk(ctx context.Context, root string, filter models.ScanFilter, emit func(string) error) error {
	if err := filter.Validate(); err != nil {
		return err
	}

	pattern, err := CompilePattern(filter.NamePattern)
	if err != nil {
		return err
	}

	info, err := os.Stat(root)
	if err != nil {
		return &ScanError{Reason: ReasonRootUnreadable, Path: root, Err: err}
	}
	if !info.IsDir() {
		return &ScanError{Reason: ReasonRootUnreadable, Path: root, Err: fmt.Errorf("not a directory")}
	}

	var ignore ignoreMatcher = noIgnore{}
	if filter.RespectGitignore {
		ignore, err = loadGitignore(root)
		if err != nil {
			return &ScanError{Reason: ReasonRootUnreadable, Path: filepath.Join(root, ".gitignore"), Err: err}
		}
	}

	w := &walker{
		ctx:     ctx,
		filter:  filter,
		pattern: pattern,
		ignore:  ignore,
		emit:    emit,
		visited: make(map[string]bool),
		folder:  cases.Fold(),
	}
	w.visited[canonical(root)] = true

	children, err := w.readDir(root)
	if err != nil {
		return &ScanError{Reason: ReasonRootUnreadable, Path: root, Err: err}
	}

	return w.walk(root, "", children)
}

// Scan collects every candidate below root. On failure no candidates are
// returned.
func Scan(ctx context.Context, root string, filter models.ScanFilter) ([]string, error) {
	candidates := make([]string, 0)
	err := Walk(ctx, root, filter, func(candidate string) error {
		candidates = append(candidates, candidate)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// walk emits the given children of abs and descends into directories.
func (w *walker) walk(abs, rel string, children []entry) error {
	for _, child := range children {
		childAbs := filepath.Join(abs, child.name)
		childRel := child.name
		if rel != "" {
			childRel = rel + "/" + child.name
		}

		if w.ignore.ShouldIgnore(childRel, child.isDir) {
			continue
		}

		if !child.isDir {
			if w.filter.IncludeFiles && w.pattern.MatchString(child.name) {
				if err := w.emit(childRel); err != nil {
					return err
				}
			}
			continue
		}

		if w.filter.IncludeDirectories {
			if err := w.emit(childRel); err != nil {
				return err
			}
		}

		key := canonical(childAbs)
		if w.visited[key] {
			continue
		}
		w.visited[key] = true

		if err := w.ctx.Err(); err != nil {
			return err
		}

		grandchildren, err := w.readDir(childAbs)
		if err != nil {
			return &ScanError{Reason: ReasonTraversalFailed, Path: childAbs, Err: err}
		}
		if err := w.walk(childAbs, childRel, grandchildren); err != nil {
			return err
		}
	}
	return nil
}

// readDir lists and classifies the children of dir, following symlinks,
// and orders them for the configured sort.
func (w *walker) readDir(dir string) ([]entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		path := filepath.Join(dir, de.Name())

		info, err := os.Stat(path)
		if err != nil {
			// Dangling symlink, or the entry vanished since ReadDir
			info, err = os.Lstat(path)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return nil, err
			}
			entries = append(entries, entry{name: de.Name(), isDir: false, modTime: info.ModTime()})
			continue
		}

		entries = append(entries, entry{name: de.Name(), isDir: info.IsDir(), modTime: info.ModTime()})
	}

	w.sortEntries(entries)
	return entries, nil
}

// sortEntries orders siblings. os.ReadDir already returns byte order, which
// also serves as the tie-breaker for the other orders.
func (w *walker) sortEntries(entries []entry) {
	switch w.filter.Order {
	case models.SortByName:
		keys := make(map[string]string, len(entries))
		for _, e := range entries {
			keys[e.name] = w.folder.String(e.name)
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return keys[entries[i].name] < keys[entries[j].name]
		})
	case models.SortByRecent:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].modTime.After(entries[j].modTime)
		})
	}
}

// canonical returns the symlink-free form of path, or path itself when it
// cannot be resolved.
func canonical(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	return resolved
}
