package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/docsectiond/internal/markup"
	"github.com/aidanlsb/docsectiond/internal/project"
	"github.com/aidanlsb/docsectiond/internal/query"
	"github.com/aidanlsb/docsectiond/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate [project_root]",
	Short: "Validate section structure and report issues",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveProjectRoot(args)
		if err != nil {
			return handleError(ErrProjectRootNotFound, err, "")
		}

		ix, err := project.New(root, markup.Options{MaxIncludeDepth: 10})
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		defer ix.Close()
		if err := ix.Refresh(); err != nil {
			return handleError(ErrInternal, err, "")
		}

		result := query.New(ix).ValidateStructure()

		if isJSONOutput() || isYAMLOutput() {
			outputSuccess(result)
			return nil
		}

		printValidationResult(result)
		if !result.Valid {
			return fmt.Errorf("validation failed with %d issue(s)", len(result.Issues))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func printValidationResult(result query.ValidationResult) {
	if result.Valid {
		fmt.Println(ui.Success("structure is valid"))
	} else {
		fmt.Println(ui.Errorf("structure has %s", ui.Count(len(result.Issues), "issue", "issues")))
	}

	if len(result.Issues) > 0 {
		fmt.Println()
		fmt.Println(ui.Header("Issues"))
		list := ui.NewList()
		list.SetBullet("✗")
		for _, issue := range result.Issues {
			list.Add(issue)
		}
		fmt.Print(list.String())
	}

	if len(result.Warnings) > 0 {
		fmt.Println()
		fmt.Println(ui.Header("Warnings"))
		list := ui.NewList()
		list.SetBullet("⚠")
		for _, w := range result.Warnings {
			list.Add(w)
		}
		fmt.Print(list.String())
	}
}

func isTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}
