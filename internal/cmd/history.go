package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/opener/internal/history"
)

// NewHistoryCommand creates the 'opener history' command
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently opened paths",
		Long: `List the paths opener handed to a program, newest first.

Recording is off by default; enable it with "history.enabled: true" in
config.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")
	cmd.AddCommand(newHistoryClearCommand())

	return cmd
}

// newHistoryClearCommand creates the 'opener history clear' command
func newHistoryClearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete recorded history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryClear(cmd, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// openHistory opens the history store, or returns nil when there is
// nothing to read.
func openHistory(cmd *cobra.Command) (*history.Store, error) {
	output := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		fmt.Fprintln(output, "History is disabled (set history.enabled: true in config.yaml)")
		return nil, nil
	}

	if _, err := os.Stat(cfg.History.DBPath); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(output, "No history recorded yet")
		return nil, nil
	}

	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return store, nil
}

func runHistory(cmd *cobra.Command, limit int) error {
	if limit < 0 {
		return usageError(fmt.Errorf("--limit must be >= 0, got %d", limit))
	}

	store, err := openHistory(cmd)
	if err != nil || store == nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No history recorded yet")
		return nil
	}

	output := cmd.OutOrStdout()
	printHistory(output, entries, isTerminalWriter(output), time.Now())
	return nil
}

func runHistoryClear(cmd *cobra.Command, yes bool) error {
	output := cmd.OutOrStdout()

	store, err := openHistory(cmd)
	if err != nil || store == nil {
		return err
	}
	defer store.Close()

	if !yes {
		fmt.Fprintln(output, "WARNING: This will delete all recorded history.")
		if !confirmAction(cmd.InOrStdin(), output) {
			fmt.Fprintln(output, "Operation cancelled.")
			return nil
		}
	}

	deleted, err := store.Clear(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "Deleted %d history entr%s.\n", deleted, pluralY(deleted))
	return nil
}

// printHistory writes one line per entry: age, exit code, program, path.
// Removed paths are marked.
func printHistory(w io.Writer, entries []history.Entry, colorOutput bool, now time.Time) {
	gray := color.New(color.FgHiBlack)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	for _, c := range []*color.Color{gray, red, yellow} {
		if colorOutput {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for _, e := range entries {
		age := gray.Sprintf("%-8s", formatAge(now.Sub(e.OpenedAt)))

		status := fmt.Sprintf("%3d", e.ExitCode)
		if e.ExitCode != 0 {
			status = red.Sprint(status)
		}

		line := fmt.Sprintf("%s %s  %-10s %s", age, status, e.Program, e.Path())
		if e.Removed {
			line += " " + yellow.Sprint("(removed)")
		}
		fmt.Fprintln(w, line)
	}
}

// formatAge renders a coarse "time ago" string.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func pluralY(n int64) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

// confirmAction reads a y/N answer from in.
func confirmAction(in io.Reader, out io.Writer) bool {
	scanner := bufio.NewScanner(in)

	fmt.Fprint(out, "Continue? [y/N]: ")
	if !scanner.Scan() {
		return false
	}

	response := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return response == "y" || response == "yes"
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
