// Package pipeline wires one opener run together: scan the tree into the
// selector, open the choice with the viewer, then optionally delete it and
// prune the directories it leaves empty.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harrison/opener/internal/action"
	"github.com/harrison/opener/internal/history"
	"github.com/harrison/opener/internal/logger"
	"github.com/harrison/opener/internal/models"
	"github.com/harrison/opener/internal/pathutil"
	"github.com/harrison/opener/internal/picker"
	"github.com/harrison/opener/internal/pruner"
	"github.com/harrison/opener/internal/scanner"
)

// ErrNoSelection is returned when the selector produced no answer.
var ErrNoSelection = errors.New("no selection")

// DefaultConfirmPrompt is used when Options.ConfirmPrompt is empty.
const DefaultConfirmPrompt = "Remove? "

// Selector picks one line from a stream of candidates.
type Selector interface {
	Pick(ctx context.Context, source picker.Source, prompt string) (string, bool, error)
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Viewer runs the user's program on the chosen path.
type Viewer interface {
	Run(ctx context.Context, program, path string) (*action.Result, error)
}

// Recorder stores a finished run.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) (string, error)
}

// Request describes one run.
type Request struct {
	Program string            // Viewer program
	Pattern string            // File name pattern
	Root    string            // Directory to scan
	Filter  models.ScanFilter // Entry kinds, order and gitignore handling
	Remove  bool              // Offer deletion after the viewer exits
	Prompt  string            // Selector prompt; defaults to "<program> "
}

// Options configures a Pipeline.
type Options struct {
	ConfirmPrompt string
	KeepRoot      bool
	// Recorder is optional; nil disables history.
	Recorder Recorder
}

// Pipeline coordinates the scanner, selector, viewer and pruner.
type Pipeline struct {
	selector Selector
	viewer   Viewer
	opts     Options
	logger   logger.Logger
}

// New creates a Pipeline. The logger parameter is optional and can be nil.
func New(selector Selector, viewer Viewer, opts Options, log logger.Logger) *Pipeline {
	if selector == nil {
		panic("selector cannot be nil")
	}
	if viewer == nil {
		panic("viewer cannot be nil")
	}
	if opts.ConfirmPrompt == "" {
		opts.ConfirmPrompt = DefaultConfirmPrompt
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Pipeline{selector: selector, viewer: viewer, opts: opts, logger: log}
}

// Run executes req. It returns ErrNoSelection, without running the viewer,
// when the user picks nothing. A viewer that exits non-zero is not an error;
// its status is in the Outcome.
func (p *Pipeline) Run(ctx context.Context, req Request) (*models.Outcome, error) {
	filter := req.Filter
	filter.NamePattern = req.Pattern
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	root, err := pathutil.NormalizeRoot(req.Root)
	if err != nil {
		return nil, &scanner.ScanError{Reason: scanner.ReasonRootUnreadable, Path: req.Root, Err: err}
	}

	// Fail before the selector window opens.
	if _, err := scanner.CompilePattern(filter.NamePattern); err != nil {
		return nil, err
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = req.Program + " "
	}

	p.logger.LogDebug(fmt.Sprintf("scanning %s (dirs=%v files=%v pattern=%q sort=%s)",
		root, filter.IncludeDirectories, filter.IncludeFiles, filter.NamePattern, filter.Order))

	startTime := time.Now()
	source := func(emit func(string) error) error {
		return scanner.Walk(ctx, root, filter, emit)
	}
	selected, ok, err := p.selector.Pick(ctx, source, prompt)
	if err != nil {
		return nil, err
	}
	if !ok {
		p.logger.LogInfo("nothing selected")
		return nil, ErrNoSelection
	}
	p.logger.LogDebug(fmt.Sprintf("selected %q after %s", selected, time.Since(startTime).Round(time.Millisecond)))

	outcome := &models.Outcome{
		Selected: selected,
		Path:     pathutil.Resolve(root, selected),
	}

	result, err := p.viewer.Run(ctx, req.Program, outcome.Path)
	if err != nil {
		return nil, err
	}
	outcome.ExitCode = result.ExitCode
	if result.ExitCode != 0 {
		p.logger.LogWarn(fmt.Sprintf("%s exited with code %d", req.Program, result.ExitCode))
	}

	if req.Remove {
		pr := pruner.New(pruner.Options{Root: root, KeepRoot: p.opts.KeepRoot}, p.logger)
		prune := pr.MaybeDelete(ctx, outcome.Path, p.confirm)
		outcome.Prune = &prune
	}

	p.record(ctx, root, req.Program, outcome)
	p.logger.LogOutcome(*outcome)

	return outcome, nil
}

// confirm treats a selector failure as "no".
func (p *Pipeline) confirm(ctx context.Context) bool {
	yes, err := p.selector.Confirm(ctx, p.opts.ConfirmPrompt)
	if err != nil {
		p.logger.LogWarn(fmt.Sprintf("confirmation failed, keeping file: %v", err))
		return false
	}
	return yes
}

// record stores the run in history. Failures never change the outcome.
func (p *Pipeline) record(ctx context.Context, root, program string, outcome *models.Outcome) {
	if p.opts.Recorder == nil {
		return
	}

	entry := history.Entry{
		Root:      root,
		Candidate: outcome.Selected,
		Program:   program,
		ExitCode:  outcome.ExitCode,
		Removed:   outcome.Prune != nil && outcome.Prune.Deleted,
	}
	id, err := p.opts.Recorder.Record(ctx, entry)
	if err != nil {
		p.logger.LogWarn(fmt.Sprintf("could not record history: %v", err))
		return
	}
	outcome.RunID = id
}
