package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/docsectiond/internal/markup"
	"github.com/aidanlsb/docsectiond/internal/project"
	"github.com/aidanlsb/docsectiond/internal/query"
	"github.com/aidanlsb/docsectiond/internal/ui"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata [project_root]",
	Short: "Print project-wide metadata (section and word counts)",
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

		surface := query.New(ix)
		meta := surface.GetProjectMetadata()

		if isJSONOutput() || isYAMLOutput() {
			outputSuccess(meta)
			return nil
		}

		fmt.Printf("%s %s\n", ui.Header("project root:"), meta.ProjectRoot)
		fmt.Printf("%s %s sections\n", ui.Header("sections:"), humanize.Comma(int64(meta.TotalSections)))
		fmt.Printf("%s %s words\n", ui.Header("words:"), humanize.Comma(int64(meta.TotalWords)))
		fmt.Println()

		table := ui.NewTable(2)
		for _, f := range surface.GetRootFilesStructure() {
			table.AddRow(ui.FilePath(f.Path), fmt.Sprintf("%d sections", f.FileInfo.SectionCount))
		}
		fmt.Print(table.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metadataCmd)
}
