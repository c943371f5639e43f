package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/docsectiond/internal/config"
)

func TestLoadFromMissingFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.LoadFrom(filepath.Join(dir, "nope.toml"))
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoadFromParsesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
project_root = "/docs"
debounce_ms = 500
ignored_dirs = ["build"]
enable_webserver = true
webserver_port_base = 9000
log_format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, "/docs", cfg.ProjectRoot)
	require.Equal(t, 500, cfg.DebounceMS)
	require.Equal(t, []string{"build"}, cfg.IgnoredDirs)
	require.True(t, cfg.EnableWebserver)
	require.Equal(t, 9000, cfg.WebserverPortBase)
	require.Equal(t, "json", cfg.LogFormat)
}

func TestDebounceFallsBackToDefault(t *testing.T) {
	var cfg *config.Config
	require.Equal(t, 250*time.Millisecond, cfg.Debounce(250*time.Millisecond))

	cfg = &config.Config{DebounceMS: 1000}
	require.Equal(t, time.Second, cfg.Debounce(250*time.Millisecond))
}

func TestCreateDefaultAtWritesFileOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.toml")

	got, err := config.CreateDefaultAt(path)
	require.NoError(t, err)
	require.Equal(t, path, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "docsectiond configuration")

	// Second call is a no-op, not an overwrite.
	require.NoError(t, os.WriteFile(path, []byte("mutated"), 0o644))
	got2, err := config.CreateDefaultAt(path)
	require.NoError(t, err)
	require.Equal(t, path, got2)
	data2, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "mutated", string(data2))
}
