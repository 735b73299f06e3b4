package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/harrison/opener/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runMessages emits what a typical open run logs, one message per level.
func runMessages(l Logger) {
	l.LogTrace("scanning /srv/media")
	l.LogDebug("selector started: pid 4242")
	l.LogInfo("opening /srv/media/show/e01.mkv with mpv")
	l.LogWarn("history not recorded: database is locked")
	l.LogError("failed to remove /srv/media/show/e01.mkv")
	l.LogOutcome(models.Outcome{
		Path:  "/srv/media/show/e01.mkv",
		Prune: &models.PruneResult{State: models.PruneDone, Deleted: true, Removed: []string{"/srv/media/show"}},
	})
}

var runMessageChecks = []struct {
	level string
	text  string
}{
	{"trace", "scanning /srv/media"},
	{"debug", "selector started"},
	{"info", "opening /srv/media/show/e01.mkv"},
	{"warn", "history not recorded"},
	{"error", "failed to remove"},
	{"info", "Opened /srv/media/show/e01.mkv (exit 0), deleted, removed 1 empty dir(s)"},
}

// TestDefaultLevelKeepsRunQuiet verifies the configured default only
// surfaces problems, not the run summary.
func TestDefaultLevelKeepsRunQuiet(t *testing.T) {
	buf := &bytes.Buffer{}
	runMessages(NewConsoleLogger(buf, "warn"))

	output := buf.String()
	assert.NotContains(t, output, "selector started")
	assert.NotContains(t, output, "Opened ")
	assert.Contains(t, output, "[WARN] history not recorded: database is locked")
	assert.Contains(t, output, "[ERROR] failed to remove")
	assert.Equal(t, 2, strings.Count(output, "\n"))
}

// TestConsoleAndFileAgreeOnLevel verifies both destinations built from the
// same log_level show the same messages, as the open command wires them.
func TestConsoleAndFileAgreeOnLevel(t *testing.T) {
	levels := map[string]int{"trace": 0, "debug": 1, "info": 2, "warn": 3, "error": 4}

	for _, configured := range []string{"trace", "debug", "info", "warn", "error"} {
		t.Run(configured, func(t *testing.T) {
			console := &bytes.Buffer{}
			fileLog, err := NewFileLoggerWithLevel(t.TempDir(), configured)
			require.NoError(t, err)

			runMessages(NewMultiLogger(NewConsoleLogger(console, configured), fileLog))
			require.NoError(t, fileLog.Close())

			data, err := os.ReadFile(fileLog.RunFile())
			require.NoError(t, err)

			for _, check := range runMessageChecks {
				want := levels[check.level] >= levels[configured]
				if got := strings.Contains(console.String(), check.text); got != want {
					t.Errorf("console at %s: %q visible = %v, want %v", configured, check.text, got, want)
				}
				if got := strings.Contains(string(data), check.text); got != want {
					t.Errorf("file at %s: %q visible = %v, want %v", configured, check.text, got, want)
				}
			}
		})
	}
}

// TestFileOutcomeDetailsFollowSummary verifies the pruned directories are
// only written together with the summary line.
func TestFileOutcomeDetailsFollowSummary(t *testing.T) {
	tests := []struct {
		level       string
		wantDetails bool
	}{
		{level: "info", wantDetails: true},
		{level: "warn", wantDetails: false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			fileLog, err := NewFileLoggerWithLevel(t.TempDir(), tt.level)
			require.NoError(t, err)
			fileLog.LogOutcome(models.Outcome{
				RunID: "0b7c",
				Path:  "/srv/media/show/e01.mkv",
				Prune: &models.PruneResult{State: models.PruneDone, Deleted: true, Removed: []string{"/srv/media/show"}, StoppedAt: "/srv/media"},
			})
			require.NoError(t, fileLog.Close())

			data, err := os.ReadFile(fileLog.RunFile())
			require.NoError(t, err)
			for _, detail := range []string{"run: 0b7c", "removed: /srv/media/show", "stopped at: /srv/media"} {
				if got := strings.Contains(string(data), detail); got != tt.wantDetails {
					t.Errorf("%q written = %v, want %v", detail, got, tt.wantDetails)
				}
			}
		})
	}
}

// TestIsValidLevel verifies config validation sees exact lowercase names.
func TestIsValidLevel(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		if !IsValidLevel(level) {
			t.Errorf("IsValidLevel(%q) = false, want true", level)
		}
	}
	for _, level := range []string{"", "WARN", " info", "warning", "fatal"} {
		if IsValidLevel(level) {
			t.Errorf("IsValidLevel(%q) = true, want false", level)
		}
	}
}

// TestUnknownLevelFallsBackToInfo verifies a logger built from an unchecked
// level still prints the run summary.
func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "loud")
	logger.LogDebug("selector started")
	logger.LogOutcome(models.Outcome{Path: "/srv/a.mkv", ExitCode: 3})

	assert.NotContains(t, buf.String(), "selector started")
	assert.Contains(t, buf.String(), "Opened /srv/a.mkv (exit 3)")
}
