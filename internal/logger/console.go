// Package logger provides logging implementations for opener runs.
//
// Every implementation satisfies Logger: leveled messages plus a one-line
// summary of a finished run. Implementations are safe for concurrent use
// and support console and file destinations.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/opener/internal/models"
)

// Severity order used for filtering.
const (
	levelTrace = iota
	levelDebug
	levelInfo
	levelWarn
	levelError
)

// ConsoleLogger writes "[HH:MM:SS] [LEVEL] message" lines, normally to
// stderr so they never mix with the selector's terminal output. Levels are
// colored when the writer is a terminal.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger. A nil writer discards messages;
// an unknown logLevel means "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		mutex:       sync.Mutex{},
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether w is a standard stream with color enabled.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}

	if w == os.Stdout || w == os.Stderr {
		// color.NoColor already accounts for NO_COLOR and non-TTY output
		return !color.NoColor
	}

	return false
}

// normalizeLogLevel lowercases level, falling back to "info".
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	if IsValidLevel(normalized) {
		return normalized
	}

	return "info"
}

// IsValidLevel reports whether level is one of trace, debug, info, warn, error.
func IsValidLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

func (cl *ConsoleLogger) LogTrace(message string) { cl.logWithLevel("TRACE", message) }
func (cl *ConsoleLogger) LogDebug(message string) { cl.logWithLevel("DEBUG", message) }
func (cl *ConsoleLogger) LogInfo(message string)  { cl.logWithLevel("INFO", message) }
func (cl *ConsoleLogger) LogWarn(message string)  { cl.logWithLevel("WARN", message) }
func (cl *ConsoleLogger) LogError(message string) { cl.logWithLevel("ERROR", message) }

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}

	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string

	if cl.colorOutput {
		formatted = cl.formatWithColor(ts, level, message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

func (cl *ConsoleLogger) formatWithColor(ts, level, message string) string {
	var coloredLevel string

	switch strings.ToUpper(level) {
	case "TRACE":
		coloredLevel = color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		coloredLevel = color.New(color.FgCyan).Sprint(level)
	case "INFO":
		coloredLevel = color.New(color.FgBlue).Sprint(level)
	case "WARN":
		coloredLevel = color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		coloredLevel = color.New(color.FgRed).Sprint(level)
	default:
		coloredLevel = level
	}

	return fmt.Sprintf("[%s] [%s] %s\n", ts, coloredLevel, message)
}

// LogOutcome prints the one-line run summary. It is filtered as an info
// message, so the default warn level hides it.
func (cl *ConsoleLogger) LogOutcome(outcome models.Outcome) {
	if cl.writer == nil {
		return
	}

	if !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	path := outcome.Path
	if cl.colorOutput {
		path = color.New(color.Bold).Sprint(path)
	}

	cl.writer.Write([]byte(fmt.Sprintf("[%s] %s\n", timestamp(), describeOutcome(path, outcome))))
}

// describeOutcome renders the shared part of the outcome summary.
func describeOutcome(path string, outcome models.Outcome) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Opened %s (exit %d)", path, outcome.ExitCode))

	if outcome.Prune != nil {
		switch outcome.Prune.State {
		case models.PruneAborted:
			sb.WriteString(", kept")
		case models.PruneDone:
			if outcome.Prune.Deleted {
				sb.WriteString(", deleted")
			} else {
				sb.WriteString(", delete failed")
			}
			if n := len(outcome.Prune.Removed); n > 0 {
				sb.WriteString(fmt.Sprintf(", removed %d empty dir(s)", n))
			}
		}
	}

	return sb.String()
}

// timestamp is the local wall clock as HH:MM:SS.
func timestamp() string {
	return time.Now().Format("15:04:05")
}
