package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/docsectiond/internal/markup"
	"github.com/aidanlsb/docsectiond/internal/project"
	"github.com/aidanlsb/docsectiond/internal/query"
	"github.com/aidanlsb/docsectiond/internal/ui"
)

var searchCmd = &cobra.Command{
	Use:   "search <query> [project_root]",
	Short: "Search section titles and content",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := args[0]
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

		hits, err := query.New(ix).SearchContent(q)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		if isJSONOutput() || isYAMLOutput() {
			outputSuccess(hits)
			return nil
		}

		if len(hits) == 0 {
			fmt.Println(ui.Hint("no matches"))
			return nil
		}

		display := ui.NewDisplayContext()
		table := ui.NewResultsTable(display, ui.SearchLayout)
		for i, hit := range hits {
			table.AddRow(ui.ResultRow{
				Num: i + 1,
				Cells: []string{
					ui.FormatRowNum(i+1, len(hits)),
					hit.Snippet,
					hit.Title,
					hit.ID,
				},
			})
		}
		fmt.Print(table.Render())
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
