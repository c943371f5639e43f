package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/docsectiond/internal/markup"
	"github.com/aidanlsb/docsectiond/internal/project"
	"github.com/aidanlsb/docsectiond/internal/query"
	"github.com/aidanlsb/docsectiond/internal/ui"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show <section_id> [project_root]",
	Short: "Print one section's content",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		var rootArgs []string
		if len(args) > 1 {
			rootArgs = args[1:]
		}
		root, err := resolveProjectRoot(rootArgs)
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

		sec, err := query.New(ix).GetSection(id)
		if err != nil {
			return handleError(ErrSectionNotFound, err, "")
		}

		if isJSONOutput() || isYAMLOutput() {
			outputSuccess(sec)
			return nil
		}

		if showRaw || !isTTY() {
			fmt.Println(sec.Content)
			return nil
		}

		display := ui.NewDisplayContext()
		rendered, err := ui.RenderMarkdown(sec.Content, display.AvailableWidth(ui.MarkdownRenderMargin))
		if err != nil {
			fmt.Println(sec.Content)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print raw content without markdown rendering")
	rootCmd.AddCommand(showCmd)
}
