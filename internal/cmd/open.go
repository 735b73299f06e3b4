package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harrison/opener/internal/action"
	"github.com/harrison/opener/internal/config"
	"github.com/harrison/opener/internal/history"
	"github.com/harrison/opener/internal/logger"
	"github.com/harrison/opener/internal/models"
	"github.com/harrison/opener/internal/picker"
	"github.com/harrison/opener/internal/pipeline"
)

// runOpen executes the default pick-view-prune command
func runOpen(cmd *cobra.Command, args []string) error {
	program, pattern, root := args[0], args[1], args[2]

	dirs, _ := cmd.Flags().GetBool("dirs")
	files, _ := cmd.Flags().GetBool("files")
	remove, _ := cmd.Flags().GetBool("remove")
	prompt, _ := cmd.Flags().GetString("prompt")

	if !dirs && !files {
		return usageError(errors.New("at least one of -d/--dirs or -f/--files is required"))
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var gitignoreFlag, keepRootFlag *bool
	var sortFlag *string
	if cmd.Flags().Changed("sort") {
		s, _ := cmd.Flags().GetString("sort")
		if _, err := models.ParseSortOrder(s); err != nil {
			return usageError(err)
		}
		sortFlag = &s
	}
	if cmd.Flags().Changed("gitignore") {
		g, _ := cmd.Flags().GetBool("gitignore")
		gitignoreFlag = &g
	}
	if cmd.Flags().Changed("keep-root") {
		k, _ := cmd.Flags().GetBool("keep-root")
		keepRootFlag = &k
	}
	cfg.MergeWithFlags(nil, sortFlag, gitignoreFlag, keepRootFlag)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	order, _ := cfg.SortOrder()

	log, closeLog, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := pipeline.Options{
		ConfirmPrompt: cfg.ConfirmPrompt,
		KeepRoot:      cfg.Prune.KeepRoot,
	}
	if cfg.History.Enabled {
		store, err := history.NewStore(cfg.History.DBPath)
		if err != nil {
			// History is a convenience; never block opening a file on it.
			log.LogWarn(fmt.Sprintf("history disabled for this run: %v", err))
		} else {
			defer store.Close()
			opts.Recorder = store
		}
	}

	selector := picker.New(picker.SelectorConfig{
		Shell:    cfg.Selector.Shell,
		Terminal: cfg.Selector.Terminal,
		Command:  cfg.Selector.Command,
	}, log)
	viewer := action.NewRunner(log)
	viewer.Stdin = cmd.InOrStdin()
	viewer.Stdout = cmd.OutOrStdout()
	viewer.Stderr = cmd.ErrOrStderr()

	_, err = pipeline.New(selector, viewer, opts, log).Run(cmd.Context(), pipeline.Request{
		Program: program,
		Pattern: pattern,
		Root:    root,
		Filter: models.ScanFilter{
			IncludeDirectories: dirs,
			IncludeFiles:       files,
			Order:              order,
			RespectGitignore:   cfg.Gitignore,
		},
		Remove: remove,
		Prompt: prompt,
	})
	return err
}

// loadConfig loads the config file named by --config (or the default
// location) and applies --log-level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		if !logger.IsValidLevel(level) {
			return nil, usageError(fmt.Errorf("invalid --log-level %q, must be one of: trace, debug, info, warn, error", level))
		}
		cfg.MergeWithFlags(&level, nil, nil, nil)
	}

	if cfg.History.Enabled {
		if err := cfg.ResolveHistoryDBPath(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newLogger builds the console logger plus, when log_dir is set, a
// per-run file logger.
func newLogger(stderr io.Writer, cfg *config.Config) (logger.Logger, func(), error) {
	consoleLog := logger.NewConsoleLogger(stderr, cfg.LogLevel)
	if cfg.LogDir == "" {
		return consoleLog, func() {}, nil
	}

	fileLog, err := logger.NewFileLoggerWithLevel(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create file logger: %w", err)
	}
	return logger.NewMultiLogger(consoleLog, fileLog), func() { fileLog.Close() }, nil
}
