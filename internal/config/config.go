package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/harrison/opener/internal/logger"
	"github.com/harrison/opener/internal/models"
)

// SelectorConfig describes how the external selector is launched
type SelectorConfig struct {
	// Shell interprets Command
	Shell string `yaml:"shell"`

	// Terminal is a command prefix hosting the selector; empty runs it
	// directly in the current terminal
	Terminal string `yaml:"terminal"`

	// Command is the selector invocation; {prompt} is replaced with the
	// quoted prompt
	Command string `yaml:"command"`
}

// PruneConfig controls removal of emptied directories
type PruneConfig struct {
	// KeepRoot never removes the scan root itself
	KeepRoot bool `yaml:"keep_root"`
}

// HistoryConfig controls the opening history database
type HistoryConfig struct {
	// Enabled turns recording on
	Enabled bool `yaml:"enabled"`

	// DBPath is the SQLite file; empty means <home>/history.db
	DBPath string `yaml:"db_path"`
}

// Config represents opener configuration
type Config struct {
	// LogLevel sets logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir enables per-run log files in this directory when non-empty
	LogDir string `yaml:"log_dir"`

	// Sort orders siblings in the candidate list (path, name, recent)
	Sort string `yaml:"sort"`

	// Gitignore skips entries ignored by <root>/.gitignore
	Gitignore bool `yaml:"gitignore"`

	// ConfirmPrompt is shown when asking whether to delete
	ConfirmPrompt string `yaml:"confirm_prompt"`

	Selector SelectorConfig `yaml:"selector"`
	Prune    PruneConfig    `yaml:"prune"`
	History  HistoryConfig  `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "warn",
		LogDir:        "",
		Sort:          string(models.SortByPath),
		Gitignore:     false,
		ConfirmPrompt: "Remove? ",
		Selector: SelectorConfig{
			Shell:    "/bin/sh",
			Terminal: "st -e",
			Command:  "sfs -p {prompt}",
		},
		Prune: PruneConfig{
			KeepRoot: false,
		},
		History: HistoryConfig{
			Enabled: false,
			DBPath:  "",
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed or has unknown keys, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Decode to a generic map first so that keys present in the file win
	// even when they hold zero values, and absent keys keep their defaults.
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if len(raw) == 0 {
		return cfg, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "yaml",
		ErrorUnused: true,
		Result:      cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Load resolves the config file location and loads it. An explicit path
// must exist; the default location may be absent.
func Load(explicitPath string) (*Config, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		return LoadConfig(explicitPath)
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadConfig(path)
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(logLevel *string, sort *string, gitignore *bool, keepRoot *bool) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if sort != nil {
		c.Sort = *sort
	}
	if gitignore != nil {
		c.Gitignore = *gitignore
	}
	if keepRoot != nil {
		c.Prune.KeepRoot = *keepRoot
	}
}

// SortOrder returns the parsed sort setting
func (c *Config) SortOrder() (models.SortOrder, error) {
	return models.ParseSortOrder(c.Sort)
}

// ResolveHistoryDBPath fills History.DBPath with the default location
// when it is empty.
func (c *Config) ResolveHistoryDBPath() error {
	if c.History.DBPath != "" {
		return nil
	}
	path, err := DefaultHistoryDBPath()
	if err != nil {
		return err
	}
	c.History.DBPath = path
	return nil
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if _, err := c.SortOrder(); err != nil {
		return err
	}

	if c.Selector.Shell == "" {
		return fmt.Errorf("selector.shell cannot be empty")
	}
	if c.Selector.Command == "" {
		return fmt.Errorf("selector.command cannot be empty")
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	return nil
}
