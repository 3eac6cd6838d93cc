// Package paths locates the config.yaml directory and the data directory
// holding the school's database and backups.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under the per-user config and data roots.
const AppName = "tilrettelegging"

// DefaultDataDirName is created in the working directory when no data
// directory is configured anywhere.
const DefaultDataDirName = ".tilrettelegging-db"

// ConfigFileName is written by init and read on every command.
const ConfigFileName = "config.yaml"

const (
	EnvConfigDir = "TILRETTELEGGING_CONFIG_DIR"
	EnvDataDir   = "TILRETTELEGGING_DATA_DIR"
)

// platformDir is swapped out in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir is $XDG_CONFIG_HOME/tilrettelegging on Linux, falling
// back to ~/.config. Elsewhere it sits under os.UserConfigDir.
func DefaultConfigDir() (string, error) {
	return userDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir is $XDG_DATA_HOME/tilrettelegging on Linux, falling back
// to ~/.local/share. On macOS and Windows it is the config directory.
func DefaultDataDir() (string, error) {
	return userDir("XDG_DATA_HOME", ".local", "share")
}

func userDir(xdgVar string, homeFallback ...string) (string, error) {
	if runtime.GOOS != "linux" {
		root, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(root, AppName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, homeFallback...), AppName)...), nil
}

func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

// BackupsDir is where scheduled backups land.
func BackupsDir(dataDir string) string {
	return filepath.Join(dataDir, "backups")
}

// ResolveConfigDir picks --config-dir, then TILRETTELEGGING_CONFIG_DIR, then
// DefaultConfigDir. Explicit values are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	if dir, ok := firstSet(flag, os.Getenv(EnvConfigDir)); ok {
		return filepath.Abs(dir)
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks --data-dir, then data_dir from config.yaml, then
// TILRETTELEGGING_DATA_DIR, then ./.tilrettelegging-db. Relative values are
// taken from the working directory.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	dir, ok := firstSet(flag, configYAMLValue, os.Getenv(EnvDataDir))
	if !ok {
		dir = DefaultDataDirName
	}
	return filepath.Abs(dir)
}

func firstSet(values ...string) (string, bool) {
	for _, v := range values {
		if v != "" {
			return v, true
		}
	}
	return "", false
}
