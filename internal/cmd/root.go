package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for opener
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "opener [flags] <program> <pattern> <root>",
		Short: "Pick a file or directory and open it with a program",
		Long: `Opener lists the entries below <root> in an external selector, runs
<program> on the one you pick and, with -r, offers to delete it afterwards,
removing the directories that deletion leaves empty.

Files are listed when their base name matches <pattern>, a case-insensitive
regular expression. Directories are listed regardless of the pattern.

Exit status is 0 on success, 1 on failure, 2 on usage errors and 3 when
nothing was selected.`,
		Example: `  # Browse PDFs below ~/papers with zathura
  opener -f zathura '\.pdf$' ~/papers

  # Pick a directory, list it, then offer to remove it
  opener -d -r ls '' /tmp/scratch`,
		Version: Version,
		Args:    validateOpenArgs,
		RunE:    runOpen,
		// Errors are printed by main, which also picks the exit code
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: $OPENER_HOME/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")

	cmd.Flags().BoolP("dirs", "d", false, "Include directories")
	cmd.Flags().BoolP("files", "f", false, "Include files matching <pattern>")
	cmd.Flags().BoolP("remove", "r", false, "Offer to delete the selection afterwards")
	cmd.Flags().String("sort", "", "Sibling order: path, name, recent")
	cmd.Flags().Bool("gitignore", false, "Skip entries ignored by <root>/.gitignore")
	cmd.Flags().Bool("keep-root", false, "Never remove <root> itself when pruning")
	cmd.Flags().String("prompt", "", `Selector prompt (default "<program> ")`)

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError(err)
	})

	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func validateOpenArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 3 {
		return usageError(fmt.Errorf("expected <program> <pattern> <root>, got %d argument(s)", len(args)))
	}
	if args[0] == "" {
		return usageError(errors.New("program cannot be empty"))
	}
	return nil
}

// NewVersionCommand creates the 'opener version' command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the opener version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "opener %s\n", Version)
		},
	}
}
