package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "dpulse"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/dpulse by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/dpulse by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/dpulse/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ExportDir returns the default directory for export artifacts.
// Returns ~/.local/share/dpulse/exports by default.
func ExportDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "exports")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/dpulse/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// SourcesFilePath returns the full path to the sources.yaml file.
// Returns ~/.config/dpulse/sources.yaml by default.
func SourcesFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "sources.yaml")
}
