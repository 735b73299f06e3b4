// Package action runs the viewer program on the selected path.
package action

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/harrison/opener/internal/logger"
)

// Runner executes `program path` with the caller's standard streams.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	logger logger.Logger
}

// Result captures how the viewer exited.
type Result struct {
	ExitCode int
	Duration time.Duration
}

// NewRunner creates a Runner wired to os.Stdin, os.Stdout and os.Stderr.
func NewRunner(log logger.Logger) *Runner {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Runner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: log,
	}
}

// Run starts program with path as its only argument and waits for it.
// A non-zero exit status is reported in Result, not as an error; an
// *ActionError is returned only when the process cannot be started.
//
// ctx only gates the start. A running viewer owns the terminal and handles
// its own signals, so cancellation never kills it.
func (r *Runner) Run(ctx context.Context, program, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run %s: %w", program, err)
	}
	startTime := time.Now()

	cmd := exec.Command(program, path)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Start(); err != nil {
		return nil, &ActionError{Reason: ReasonSpawnFailed, Program: program, Path: path, Err: err}
	}
	r.logger.LogDebug(fmt.Sprintf("started %s (pid %d)", program, cmd.Process.Pid))

	result := &Result{}
	err := cmd.Wait()
	result.Duration = time.Since(startTime)

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// Copying a non-file stream failed after the process ran.
			return result, fmt.Errorf("wait for %s: %w", program, err)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	r.logger.LogDebug(fmt.Sprintf("%s exited with code %d after %s", program, result.ExitCode, result.Duration.Round(time.Millisecond)))
	return result, nil
}
