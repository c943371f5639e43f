// Package cli implements the docsectiond command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/docsectiond/internal/config"
)

var (
	// Global flags
	configPathFlag  string
	logFormatFlag   string
	projectRootFlag string

	// Resolved values
	resolvedConfigPath string
	cfg                *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "docsectiond",
	Short: "A local documentation indexing and section-editing service",
	Long: `docsectiond parses a directory of Markdown and AsciiDoc files into an
addressable tree of sections, serves structure/search/edit operations over a
JSON-RPC tool protocol on stdio, and optionally over a read-only HTTP API,
keeping the index current via a filesystem watcher.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveProjectRoot(args)
		if err != nil {
			return handleError(ErrProjectRootNotFound, err, "")
		}
		return runServe(root)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "help", "completion", "version":
			return nil
		}

		var err error
		cfg, resolvedConfigPath, err = loadConfigWithPath()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg == nil {
			cfg = &config.Config{}
		}
		if logFormatFlag != "" {
			cfg.LogFormat = logFormatFlag
		}

		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&projectRootFlag, "project-root", "", "Directory to index (overrides config and positional argument)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log line format recorded in the config (obslog always writes text lines)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "Output format: text, json, or yaml")
}

func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

func loadConfigWithPath() (*config.Config, string, error) {
	if configPathFlag != "" {
		loaded, err := config.LoadFrom(configPathFlag)
		if err != nil {
			return nil, "", err
		}
		return loaded, configPathFlag, nil
	}

	loaded, err := config.Load()
	if err != nil {
		return nil, "", err
	}
	return loaded, config.DefaultPath(), nil
}

// resolveProjectRoot applies the precedence --project-root flag > positional
// arg > config file, following the teacher's root.go vault-resolution style.
func resolveProjectRoot(args []string) (string, error) {
	root := projectRootFlag
	if root == "" && len(args) > 0 {
		root = args[0]
	}
	if root == "" {
		root = getConfig().ProjectRoot
	}
	if root == "" {
		return "", fmt.Errorf(`no project root specified

Either:
  1. Pass it as the first argument: docsectiond serve /path/to/docs
  2. Use --project-root /path/to/docs
  3. Set project_root in %s`, resolvedConfigPath)
	}

	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return "", fmt.Errorf("project root not found or not a directory: %s", root)
	}
	return root, nil
}
