package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/docsectiond/internal/markup"
	"github.com/aidanlsb/docsectiond/internal/project"
	"github.com/aidanlsb/docsectiond/internal/query"
	"github.com/aidanlsb/docsectiond/internal/ui"
)

var structureMaxDepth int

var structureCmd = &cobra.Command{
	Use:   "structure [project_root]",
	Short: "Print the section tree for a project",
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

		files := query.New(ix).GetRootFilesStructure()

		if isJSONOutput() || isYAMLOutput() {
			outputSuccess(files)
			return nil
		}

		for _, f := range files {
			fmt.Println(ui.AccentBold.Render(f.Path))
			for _, node := range f.Sections {
				printTree(node, 1)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	structureCmd.Flags().IntVar(&structureMaxDepth, "max-depth", 0, "Maximum heading level to display (0 = unlimited)")
	rootCmd.AddCommand(structureCmd)
}

func printTree(node query.TreeNode, depth int) {
	if structureMaxDepth > 0 && node.Level > structureMaxDepth {
		return
	}
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s %s\n", indent, ui.Muted.Render(strings.Repeat("#", node.Level)), node.Title)
	for _, child := range node.Children {
		printTree(child, depth+1)
	}
}
