// Package paths resolves where plantcare keeps its config file, its
// database and its backups.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "plantcare"

// BackupDirName is the default export target inside the data directory.
const BackupDirName = "backup"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "PLANTCARE_CONFIG_DIR"
	EnvDataDir   = "PLANTCARE_DATA_DIR"
)

// platform holds the OS lookups, swapped out in tests.
var platform = struct {
	goos          string
	getenv        func(string) string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	getenv:        os.Getenv,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// userDir returns the per-user directory for AppName. On Linux it honors
// xdgVar and falls back to linuxDefault under the home directory. Other
// systems use os.UserConfigDir.
func userDir(xdgVar string, linuxDefault ...string) (string, error) {
	if platform.goos != "linux" {
		dir, err := platform.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := platform.getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platform.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, linuxDefault...), AppName)...), nil
}

// DefaultConfigDir returns the platform default config directory.
//
// Linux:   $XDG_CONFIG_HOME/plantcare (fallback ~/.config/plantcare)
// macOS:   ~/Library/Application Support/plantcare
// Windows: %APPDATA%/plantcare
func DefaultConfigDir() (string, error) {
	return userDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform default data directory.
//
// Linux:   $XDG_DATA_HOME/plantcare (fallback ~/.local/share/plantcare)
// Others:  same as DefaultConfigDir
func DefaultDataDir() (string, error) {
	return userDir("XDG_DATA_HOME", ".local", "share")
}

// ResolveConfigDir picks the config directory: flag, then
// PLANTCARE_CONFIG_DIR, then the platform default.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := platform.getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks the data directory: flag, then the config file's
// data_dir, then PLANTCARE_DATA_DIR, then the platform default.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, dir := range []string{flag, configValue, platform.getenv(EnvDataDir)} {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}
	return DefaultDataDir()
}

// BackupDir returns the default export directory for dataDir.
func BackupDir(dataDir string) string {
	return filepath.Join(dataDir, BackupDirName)
}
