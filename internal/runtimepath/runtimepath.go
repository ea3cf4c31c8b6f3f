package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "floatdesk"

// ConfigDir returns the directory holding config.yaml and saved layouts.
// Priority:
// 1) $XDG_CONFIG_HOME/floatdesk (if set)
// 2) ~/.config/floatdesk
func ConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the directory for the log file.
// Priority:
// 1) $XDG_DATA_HOME/floatdesk (if set)
// 2) ~/.local/share/floatdesk
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env string, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" && filepath.IsAbs(base) {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, fallback, appName), nil
}

// ConfigFile returns the default config file path.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LayoutsDir returns the default saved-layout directory.
func LayoutsDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "layouts"), nil
}

// LogFile returns the default log file path.
func LogFile() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".log"), nil
}
