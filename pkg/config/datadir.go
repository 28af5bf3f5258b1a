package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "trackline"

// DefaultDataDir is the per-user data directory used when neither
// TRACKLINE_DIR nor --dir is given.
func DefaultDataDir() string {
	home, _ := os.UserHomeDir()
	return dataDirFor(runtime.GOOS, home, os.Getenv)
}

// dataDirFor picks the first usable base directory for goos, in order of
// preference, and appends the app name.
func dataDirFor(goos, home string, getenv func(string) string) string {
	var bases []string
	switch goos {
	case "darwin":
		bases = []string{filepath.Join(home, "Library", "Application Support")}
	case "windows":
		bases = []string{getenv("LOCALAPPDATA"), getenv("APPDATA"), home}
	default:
		bases = []string{getenv("XDG_DATA_HOME"), filepath.Join(home, ".local", "share")}
	}
	for _, base := range bases {
		if base != "" {
			return filepath.Join(base, appName)
		}
	}
	return appName
}
