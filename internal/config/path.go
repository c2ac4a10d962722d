// Package config loads pennywise settings from viper, the environment and defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}

// ConfigDir is where the config file and saved tokens live.
func ConfigDir() string {
	return ExpandPath("~/.config/penny")
}

// DataDir is where expense data is kept by default.
func DataDir() string {
	return ExpandPath("~/.local/share/penny")
}
