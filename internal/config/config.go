// ABOUTME: sleepdash configuration: default export paths, export dir and logging.
// ABOUTME: Stored as JSON under the XDG config directory.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Config stores sleepdash configuration.
type Config struct {
	// SleepsFile is the default path of the sleeps.csv export. Supports ~ expansion.
	SleepsFile string `json:"sleeps_file,omitempty"`

	// CyclesFile is the default path of the physiological_cycles.csv export.
	CyclesFile string `json:"cycles_file,omitempty"`

	// ExportDir is where report exports are written when no output path is given.
	// Defaults to ~/.local/share/sleepdash/exports.
	ExportDir string `json:"export_dir,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty"`

	// LogFormat is "console" (default) or "json".
	LogFormat string `json:"log_format,omitempty"`
}

// GetSleepsFile returns the configured sleeps export path with ~ expanded.
func (c *Config) GetSleepsFile() string {
	return ExpandPath(c.SleepsFile)
}

// GetCyclesFile returns the configured cycles export path with ~ expanded.
func (c *Config) GetCyclesFile() string {
	return ExpandPath(c.CyclesFile)
}

// GetExportDir returns the configured export directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetExportDir() string {
	if c.ExportDir == "" {
		return filepath.Join(DataDir(), "exports")
	}
	return ExpandPath(c.ExportDir)
}

// GetLogLevel returns the configured log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "warn"
	}
	return c.LogLevel
}

// GetLogFormat returns the configured log format, defaulting to "console".
func (c *Config) GetLogFormat() string {
	if c.LogFormat == "" {
		return "console"
	}
	return c.LogFormat
}

// DataDir returns the XDG data directory for sleepdash.
func DataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, _ := os.UserHomeDir()
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "sleepdash")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "sleepdash", "config.json")
}

// Load reads config from disk. A missing file yields an empty config.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Set updates a field by its JSON key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "sleeps_file":
		c.SleepsFile = value
	case "cycles_file":
		c.CyclesFile = value
	case "export_dir":
		c.ExportDir = value
	case "log_level":
		c.LogLevel = value
	case "log_format":
		c.LogFormat = value
	default:
		return &UnknownKeyError{Key: key}
	}
	return nil
}

// UnknownKeyError is returned by Set for keys the config does not have.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return "unknown config key: " + e.Key + " (use sleeps_file, cycles_file, export_dir, log_level or log_format)"
}
