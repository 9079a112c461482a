package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
)

const appDirName = "daybook"

// DefaultDataDir returns the system-appropriate directory for daybook's files.
func DefaultDataDir() string {
	homeDir, err := homedir.Dir()
	if err != nil {
		return appDirName
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(homeDir, "AppData", "Roaming", appDirName)
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", appDirName)
	default: // Primarily Linux, but also other UNIX-like systems.
		return filepath.Join(homeDir, ".local", "share", appDirName)
	}
}

// GetDefaultDBPathOnly returns the default journal store path without creating anything.
func GetDefaultDBPathOnly() string {
	return filepath.Join(DefaultDataDir(), "daybook.db")
}

// GetDefaultPrefsDir returns the default preference store directory.
func GetDefaultPrefsDir() string {
	return filepath.Join(DefaultDataDir(), "prefs")
}

// ResolvePath expands a leading ~ and makes p absolute.
func ResolvePath(p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("failed to expand path '%s': %w", p, err)
	}
	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", expanded, err)
	}
	return absPath, nil
}

// ResolveAndEnsureDBPath resolves providedPath (or the default when empty)
// and makes sure its parent directory exists. ":memory:" passes through.
func ResolveAndEnsureDBPath(providedPath string) (string, error) {
	if providedPath == ":memory:" {
		return providedPath, nil
	}

	targetPath := providedPath
	if targetPath == "" {
		targetPath = GetDefaultDBPathOnly()
	}

	targetPath, err := ResolvePath(targetPath)
	if err != nil {
		return "", err
	}

	dbDir := filepath.Dir(targetPath)
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory '%s' for database: %w", dbDir, err)
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to stat directory '%s' for database: %w", dbDir, err)
	}

	return targetPath, nil
}
