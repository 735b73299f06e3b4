package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the opener home directory.
const HomeEnv = "OPENER_HOME"

// GetOpenerHome returns the directory holding config.yaml and history.db.
// Priority order:
//  1. OPENER_HOME environment variable (if set)
//  2. $XDG_CONFIG_HOME/opener
//  3. ~/.config/opener
//
// The directory is not created.
func GetOpenerHome() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return home, nil
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "opener"), nil
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(userHome, ".config", "opener"), nil
}

// DefaultConfigPath returns <home>/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := GetOpenerHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "config.yaml"), nil
}

// DefaultHistoryDBPath returns <home>/history.db.
func DefaultHistoryDBPath() (string, error) {
	home, err := GetOpenerHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "history.db"), nil
}
