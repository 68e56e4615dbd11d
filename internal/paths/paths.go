// Package paths resolves the configuration directory and the location of the
// Songbird library database.
package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/adrg/xdg"
)

// AppName names the configuration directory under the user config home.
const AppName = "songbird"

// LibraryFileName is the file name of the main Songbird library database.
const LibraryFileName = "main@library.songbirdnest.com.db"

// Environment variable names for overrides.
const (
	EnvConfigDir = "SONGBIRD_CONFIG_DIR"
	EnvDB        = "SONGBIRD_DB"
)

// ErrDBNotFound is returned when no library database can be located.
var ErrDBNotFound = errors.New("songbird library database not found")

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	configHome func() string
	homeDir    func() string
	appData    func() string
}{
	configHome: func() string { return xdg.ConfigHome },
	homeDir:    func() string { return xdg.Home },
	appData: func() string {
		if runtime.GOOS == "windows" {
			return os.Getenv("APPDATA")
		}
		return ""
	},
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/songbird (fallback ~/.config/songbird)
// macOS:   ~/Library/Application Support/songbird
// Windows: %LOCALAPPDATA%/songbird
func DefaultConfigDir() string {
	return filepath.Join(platformDir.configHome(), AppName)
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > SONGBIRD_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir(), nil
}

// ProfileGlobs returns the glob patterns matching the library database of
// every Songbird profile on this machine, most likely location first.
//
// Linux:   ~/.songbird2/<profile>/db/
// macOS:   ~/Library/Application Support/Songbird2/Profiles/<profile>/db/
// Windows: %APPDATA%/Songbird2/Profiles/<profile>/db/
func ProfileGlobs() []string {
	home := platformDir.homeDir()
	globs := []string{
		filepath.Join(home, ".songbird2", "*", "db", LibraryFileName),
		filepath.Join(home, "Library", "Application Support", "Songbird2", "Profiles", "*", "db", LibraryFileName),
	}
	if appData := platformDir.appData(); appData != "" {
		globs = append(globs, filepath.Join(appData, "Songbird2", "Profiles", "*", "db", LibraryFileName))
	}
	return globs
}

// DiscoverDB returns the first library database matched by ProfileGlobs.
// Matches of one glob are taken in lexical order. Returns ErrDBNotFound when
// no profile holds a database.
func DiscoverDB() (string, error) {
	for _, pattern := range ProfileGlobs() {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return "", err
		}
		slices.Sort(matches)
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
				return m, nil
			}
		}
	}
	return "", ErrDBNotFound
}

// ResolveDBPath returns the library database path following the precedence
// chain: flag > configYAMLValue > SONGBIRD_DB env > DiscoverDB().
// Explicit paths are made absolute but not checked for existence.
func ResolveDBPath(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDB); env != "" {
		return filepath.Abs(env)
	}
	return DiscoverDB()
}
