// Package pruner deletes a selected path after confirmation and removes the
// ancestor directories that deletion left empty.
package pruner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrison/opener/internal/logger"
	"github.com/harrison/opener/internal/models"
)

// remover removes a single file or empty directory.
type remover interface {
	Remove(path string) error
}

type osRemover struct{}

func (osRemover) Remove(path string) error { return os.Remove(path) }

// Options tunes the prune loop.
type Options struct {
	// Root is the normalized scan root.
	Root string
	// KeepRoot stops pruning before Root is attempted.
	KeepRoot bool
}

// Pruner runs the confirm, delete, prune sequence.
type Pruner struct {
	opts   Options
	fs     remover
	logger logger.Logger
}

// New creates a Pruner operating on the real filesystem.
func New(opts Options, log logger.Logger) *Pruner {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if opts.Root != "" {
		opts.Root = filepath.Clean(opts.Root)
	}
	return &Pruner{opts: opts, fs: osRemover{}, logger: log}
}

// MaybeDelete asks confirm whether path should go. On a negative answer
// nothing on disk is touched. Otherwise path is removed and its parent
// directories are removed innermost first until one cannot be, the
// filesystem root is reached, or (with KeepRoot) the scan root is reached.
//
// Failures are recorded in the result, never returned.
func (p *Pruner) MaybeDelete(ctx context.Context, path string, confirm func(context.Context) bool) models.PruneResult {
	result := models.PruneResult{State: models.PruneIdle}

	result.State = models.PruneConfirming
	if !confirm(ctx) {
		result.State = models.PruneAborted
		p.logger.LogDebug(fmt.Sprintf("kept %s", path))
		return result
	}

	result.State = models.PruneDeleting
	if err := p.fs.Remove(path); err != nil {
		result.DeleteErr = err
		p.logger.LogWarn(fmt.Sprintf("could not remove %s: %v", path, err))
	} else {
		result.Deleted = true
		p.logger.LogInfo(fmt.Sprintf("removed %s", path))
	}

	result.State = models.PrunePruning
	result.Removed, result.StoppedAt = p.prune(filepath.Dir(filepath.Clean(path)))

	result.State = models.PruneDone
	return result
}

// prune removes dir and its ancestors while they are empty.
func (p *Pruner) prune(dir string) (removed []string, stoppedAt string) {
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return removed, ""
		}
		if p.opts.KeepRoot && p.opts.Root != "" && dir == p.opts.Root {
			p.logger.LogDebug(fmt.Sprintf("keeping scan root %s", dir))
			return removed, ""
		}

		if err := p.fs.Remove(dir); err != nil {
			// Usually ENOTEMPTY; this is how the walk normally ends.
			p.logger.LogDebug(fmt.Sprintf("stopped pruning at %s: %v", dir, err))
			return removed, dir
		}
		p.logger.LogDebug(fmt.Sprintf("removed empty directory %s", dir))
		removed = append(removed, dir)
		dir = parent
	}
}
