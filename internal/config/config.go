// Package config handles docsectiond's server configuration: the project
// root, watcher debounce tuning, ignored directory names, and the HTTP API
// port base. It follows the teacher's config.toml + BurntSushi/toml pattern
// (Config struct, Load/LoadFrom/DefaultPath), simplified down from the
// teacher's multi-vault layout to the single project root this service
// indexes.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is docsectiond's server configuration.
type Config struct {
	// ProjectRoot is the directory to index. Empty means the caller must
	// supply one explicitly (via --project-root or a positional CLI arg).
	ProjectRoot string `toml:"project_root"`

	// DebounceMS is a watcher coalescing window in milliseconds, read by
	// Debounce. The file watcher does not consult it; it always uses
	// internal/watch.DebounceWindow.
	DebounceMS int `toml:"debounce_ms"`

	// IgnoredDirs lists extra directory names to ignore. Neither discovery
	// nor the watcher reads it; both use only their built-in set (.git,
	// node_modules, venv, .venv, and dot-directories).
	IgnoredDirs []string `toml:"ignored_dirs"`

	// EnableWebserver turns the HTTP API on. ENABLE_WEBSERVER=true turns it
	// on regardless of this field; any other env value leaves this field
	// in charge.
	EnableWebserver bool `toml:"enable_webserver"`

	// WebserverPortBase is the HTTP API's base port, used when the
	// WEBSERVER_PORT_BASE env var is unset.
	WebserverPortBase int `toml:"webserver_port_base"`

	// LogFormat records a log line format ("text" or "json") from the config
	// file or --log-format. obslog does not read it and always writes
	// key=value text lines.
	LogFormat string `toml:"log_format"`
}

// Debounce returns the configured debounce window, defaulting to def when
// unset.
func (c *Config) Debounce(def time.Duration) time.Duration {
	if c == nil || c.DebounceMS <= 0 {
		return def
	}
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Load loads the configuration from the default location. Returns a zero
// Config, not an error, if the file doesn't exist — docsectiond runs fine
// with no config file at all.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// DefaultPath returns the default config file path: ~/.config/docsectiond/config.toml,
// falling back to the OS-specific user config dir, following the teacher's
// XDG-first DefaultPath convention.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "docsectiond", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "docsectiond", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// CreateDefaultAt writes a commented default config file at path if one
// doesn't already exist, returning the path either way.
func CreateDefaultAt(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("config path is required")
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# docsectiond configuration

# Directory to index. Overridden by --project-root or a positional argument.
# project_root = "/path/to/docs"

# Watcher debounce window, in milliseconds (parsed only; the watcher
# always uses 250).
# debounce_ms = 250

# Extra directory names to ignore (parsed only; the built-in set .git,
# node_modules, venv, .venv is what discovery and the watcher use).
# ignored_dirs = ["build", "dist"]

# Enable the read-only HTTP API. ENABLE_WEBSERVER=true enables it regardless.
# enable_webserver = false

# Base port the HTTP API binds to (tries 10 successive ports on conflict).
# Overridden by WEBSERVER_PORT_BASE.
# webserver_port_base = 8420

# Log line format, "text" or "json" (parsed only; internal/obslog always
# writes text lines).
# log_format = "text"
`

	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
