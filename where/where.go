// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/karrtopelka/drill-bot/constant"
	"github.com/karrtopelka/drill-bot/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "DRILLBOT_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// It honors the XDG_CONFIG_HOME specification on Linux and equivalent
// user profile paths elsewhere, with an explicit override via DRILLBOT_CONFIG_PATH.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.DrillBot))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.DrillBot))
}

// Logs resolves the absolute path to the directory used for diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Data resolves the absolute path to the directory holding the SQLite database.
func Data() string {
	return ensureDir(filepath.Join(Config(), "data"))
}

// Database resolves the absolute path to the reactions/polls SQLite database file.
func Database() string {
	return filepath.Join(Data(), "drillbot.db")
}

// Translations resolves the absolute path to the translation cache file.
func Translations() string {
	return filepath.Join(Cache(), "translations.json")
}

// Temp resolves a volatile filesystem path for transient media buffers spilled to disk.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.DrillBot))
}
