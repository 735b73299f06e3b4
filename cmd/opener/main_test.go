package main

import (
	"testing"

	"github.com/harrison/opener/internal/cmd"
)

func TestRunExitCodes(t *testing.T) {
	t.Setenv("OPENER_HOME", t.TempDir())

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "version", args: []string{"version"}, want: cmd.ExitOK},
		{name: "missing arguments", args: []string{"-f"}, want: cmd.ExitUsage},
		{name: "unknown flag", args: []string{"--nope"}, want: cmd.ExitUsage},
		{name: "missing root", args: []string{"-f", "cat", "", "/nonexistent/opener/root"}, want: cmd.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args); got != tt.want {
				t.Errorf("run(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

func TestVersionIsSet(t *testing.T) {
	if cmd.Version == "" {
		t.Error("Version should not be empty")
	}
}
