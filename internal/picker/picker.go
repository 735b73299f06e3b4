// Package picker runs an external interactive selector over a pair of pipes.
//
// A session feeds newline-terminated candidates to the selector's standard
// input, closes it to signal the end of the list, then blocks reading the
// selector's standard output until end-of-stream. The first line read back
// is the selection; an empty stream means the user made no choice.
package picker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/harrison/opener/internal/logger"
)

// Confirmation answers offered by Confirm, in display order.
const (
	ConfirmNo  = "No"
	ConfirmYes = "Yes"
)

// DefaultShell runs the selector command when SelectorConfig.Shell is empty.
const DefaultShell = "/bin/sh"

// Source produces candidates by calling emit once per line. It must return
// the error emit returns, if any.
type Source func(emit func(line string) error) error

// Lines returns a Source over a fixed list of candidates.
func Lines(lines ...string) Source {
	return func(emit func(string) error) error {
		for _, line := range lines {
			if err := emit(line); err != nil {
				return err
			}
		}
		return nil
	}
}

// SelectorConfig describes how to launch the selector.
type SelectorConfig struct {
	// Shell interprets Command (default /bin/sh).
	Shell string
	// Terminal is a command prefix hosting the selector, e.g. "st -e".
	// Empty runs the shell directly in the current terminal.
	Terminal string
	// Command is the selector invocation; "{prompt}" is replaced with the
	// single-quoted prompt.
	Command string
}

// Picker spawns one selector process per Pick call.
type Picker struct {
	selector SelectorConfig
	logger   logger.Logger
}

// New creates a Picker. A nil logger discards messages.
func New(selector SelectorConfig, log logger.Logger) *Picker {
	if selector.Shell == "" {
		selector.Shell = DefaultShell
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Picker{selector: selector, logger: log}
}

// BuildCommandArgs returns the program and arguments that start the selector.
// The selector's streams are passed as fds 3 (candidates) and 4 (answer) as
// well as stdin/stdout, and the script rebinds 0 and 1 to them so that a
// terminal host which does not forward stdio still connects the selector.
func (p *Picker) BuildCommandArgs(prompt string) (string, []string) {
	command := strings.ReplaceAll(p.selector.Command, "{prompt}", shellQuote(prompt))
	script := "exec 0<&3 1>&4 3<&- 4>&-\n" + command

	terminal := strings.Fields(p.selector.Terminal)
	if len(terminal) == 0 {
		return p.selector.Shell, []string{"-c", script}
	}

	args := append([]string{}, terminal[1:]...)
	args = append(args, p.selector.Shell, "-c", script)
	return terminal[0], args
}

// Pick runs the selector over the candidates from source and returns the
// chosen line. ok is false when the selector wrote nothing, which callers
// must treat as a normal abort.
//
// If source fails, the selector is killed and the source error is returned
// without waiting for an answer. Cancelling ctx does the same and returns
// ctx.Err(). The selector process is always waited for before Pick returns.
func (p *Picker) Pick(ctx context.Context, source Source, prompt string) (selection string, ok bool, err error) {
	name, args := p.BuildCommandArgs(prompt)

	toSelectorR, toSelectorW, err := os.Pipe()
	if err != nil {
		return "", false, &PickerError{Reason: ReasonSpawnFailed, Cmd: name, Err: fmt.Errorf("create candidate pipe: %w", err)}
	}
	fromSelectorR, fromSelectorW, err := os.Pipe()
	if err != nil {
		toSelectorR.Close()
		toSelectorW.Close()
		return "", false, &PickerError{Reason: ReasonSpawnFailed, Cmd: name, Err: fmt.Errorf("create answer pipe: %w", err)}
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = toSelectorR
	cmd.Stdout = fromSelectorW
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{toSelectorR, fromSelectorW}

	if err := cmd.Start(); err != nil {
		toSelectorR.Close()
		toSelectorW.Close()
		fromSelectorR.Close()
		fromSelectorW.Close()
		return "", false, &PickerError{Reason: ReasonSpawnFailed, Cmd: name, Err: err}
	}
	p.logger.LogDebug(fmt.Sprintf("selector started: pid %d", cmd.Process.Pid))

	// The child holds its own copies; ours would keep the streams from
	// reaching end-of-file.
	toSelectorR.Close()
	fromSelectorW.Close()

	// Cancellation unblocks our ends of both pipes. A selector's children can
	// outlive the kill and keep the answer stream open.
	stop := context.AfterFunc(ctx, func() {
		now := time.Now()
		_ = toSelectorW.SetWriteDeadline(now)
		_ = fromSelectorR.SetReadDeadline(now)
	})
	defer stop()

	sourceErr := p.send(toSelectorW, source)
	if sourceErr != nil {
		var we *writeError
		if errors.As(sourceErr, &we) {
			// The selector stopped reading, typically because it already
			// has an answer. Still collect it.
			p.logger.LogDebug(fmt.Sprintf("selector closed its input early: %v", we.err))
			sourceErr = nil
		} else {
			p.logger.LogDebug(fmt.Sprintf("candidate source failed, killing selector: %v", sourceErr))
			_ = cmd.Process.Kill()
		}
	}

	var answer []byte
	var readErr error
	if sourceErr == nil && ctx.Err() == nil {
		answer, readErr = io.ReadAll(fromSelectorR)
	}
	fromSelectorR.Close()

	if waitErr := cmd.Wait(); waitErr != nil {
		p.logger.LogDebug(fmt.Sprintf("selector exited: %v", waitErr))
	}

	if sourceErr != nil {
		return "", false, sourceErr
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if readErr != nil {
		return "", false, fmt.Errorf("read selection: %w", readErr)
	}

	selection, ok = parseAnswer(answer)
	return selection, ok, nil
}

// send writes every candidate and closes w, whatever happens.
func (p *Picker) send(w *os.File, source Source) error {
	defer w.Close()

	bw := bufio.NewWriter(w)
	count := 0
	err := source(func(line string) error {
		if _, err := bw.WriteString(line); err != nil {
			return &writeError{err: err}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return &writeError{err: err}
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return &writeError{err: err}
	}
	p.logger.LogDebug(fmt.Sprintf("sent %d candidate(s) to selector", count))
	return nil
}

// Confirm asks a yes/no question through the selector. Only an explicit
// "Yes" is affirmative.
func (p *Picker) Confirm(ctx context.Context, prompt string) (bool, error) {
	answer, ok, err := p.Pick(ctx, Lines(ConfirmNo, ConfirmYes), prompt)
	if err != nil {
		return false, err
	}
	return ok && answer == ConfirmYes, nil
}

// parseAnswer extracts the first line of the selector output. Only the
// newline terminator is removed.
func parseAnswer(raw []byte) (string, bool) {
	answer := string(raw)
	if i := strings.IndexByte(answer, '\n'); i >= 0 {
		answer = answer[:i]
	}
	if answer == "" {
		return "", false
	}
	return answer, true
}

// shellQuote wraps s in single quotes for POSIX shells.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
