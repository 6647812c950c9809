package ilo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// configHomeEnv overrides the root directory for all configs when set to
	// a non-empty value. It is read on every resolution, never cached, so
	// changing it between loads takes effect within the same process.
	configHomeEnv = "ILO_CONFIG_HOME"

	// appDirName is the namespace joined under the user config directory
	// when no override is set, e.g. ~/.config/ilo on Linux.
	appDirName = "ilo"
)

// resolveConfigHome returns the root directory for config files, creating it
// (with any missing parents) if absent.
func resolveConfigHome() (string, error) {
	home := os.Getenv(configHomeEnv)
	if home == "" {
		// Prefer XDG_CONFIG_HOME explicitly when set, then fall back to os.UserConfigDir.
		base := os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			var err error
			base, err = os.UserConfigDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine user config dir: %w", err)
			}
		}
		home = filepath.Join(base, appDirName)
	}
	if err := ensureDir(home); err != nil {
		return "", errors.Join(ErrEnsureConfigDir, err)
	}
	return home, nil
}

// resolveConfigPath maps a config name to its absolute file path,
// <ConfigHome>/<name><ext>.
func resolveConfigPath(name, ext string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	home, err := resolveConfigHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, name+ext), nil
}

// validateName rejects names that would escape the config home once joined
// into a path. A name must be a single bare path component.
func validateName(name string) error {
	switch {
	case name == "" || name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// ensureDir creates dir and missing parents, tolerating a directory that
// already exists but not a non-directory in its place.
func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", dir)
		}
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return err
	}
	return os.MkdirAll(dir, 0o700)
}
