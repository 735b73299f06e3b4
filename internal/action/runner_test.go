package action

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script and returns its path.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "viewer.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func newBufferedRunner() (*Runner, *bytes.Buffer) {
	var out bytes.Buffer
	r := NewRunner(nil)
	r.Stdin = strings.NewReader("")
	r.Stdout = &out
	r.Stderr = &out
	return r, &out
}

func TestRunPassesPath(t *testing.T) {
	r, out := newBufferedRunner()
	script := writeScript(t, `printf '%s' "$1"`)

	result, err := r.Run(context.Background(), script, "/tmp/T/sub/y.txt")
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "/tmp/T/sub/y.txt", out.String())
	assert.Greater(t, result.Duration.Nanoseconds(), int64(0))
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "success", body: "exit 0", wantCode: 0},
		{name: "failure", body: "exit 1", wantCode: 1},
		{name: "custom code", body: "exit 42", wantCode: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newBufferedRunner()
			result, err := r.Run(context.Background(), writeScript(t, tt.body), "file")
			require.NoError(t, err, "non-zero exit must not be an error")
			if result.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", result.ExitCode, tt.wantCode)
			}
		})
	}
}

func TestRunProgramNotFound(t *testing.T) {
	r, _ := newBufferedRunner()

	result, err := r.Run(context.Background(), "opener-no-such-viewer", "file")
	require.Error(t, err)
	assert.Nil(t, result)

	var ae *ActionError
	require.True(t, errors.As(err, &ae), "expected *ActionError, got %T", err)
	assert.Equal(t, ReasonSpawnFailed, ae.Reason)
	assert.Equal(t, "opener-no-such-viewer", ae.Program)
	assert.Equal(t, "file", ae.Path)
	assert.Contains(t, err.Error(), "spawn failed")
}

func TestRunStdinIsForwarded(t *testing.T) {
	r, out := newBufferedRunner()
	r.Stdin = strings.NewReader("typed by user\n")

	_, err := r.Run(context.Background(), writeScript(t, "cat"), "ignored")
	require.NoError(t, err)
	assert.Equal(t, "typed by user\n", out.String())
}

func TestRunOutlivesCancelledContext(t *testing.T) {
	r, _ := newBufferedRunner()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(200*time.Millisecond, cancel)

	result, err := r.Run(ctx, writeScript(t, "sleep 0.5; exit 7"), "file")
	require.NoError(t, err)
	assert.Equal(t, 7, result.ExitCode, "viewer must exit on its own terms")
	assert.GreaterOrEqual(t, result.Duration, 400*time.Millisecond)
}

func TestRunNotStartedAfterCancel(t *testing.T) {
	r, out := newBufferedRunner()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.Run(ctx, writeScript(t, "echo started"), "file")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, context.Canceled), "expected context.Canceled, got %v", err)
	assert.Empty(t, out.String())
}

func TestActionReasonString(t *testing.T) {
	assert.Equal(t, "spawn failed", ReasonSpawnFailed.String())
	assert.Equal(t, "unknown", ActionReason(9).String())
}
