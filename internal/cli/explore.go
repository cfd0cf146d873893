package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/arbor-viz/arbor/pkg/layout"
	"github.com/arbor-viz/arbor/pkg/tree"
)

// exploreCommand creates the interactive tree explorer command.
func (c *CLI) exploreCommand() *cobra.Command {
	opts := layout.Options{
		LevelWidth: layout.DefaultLevelWidth,
		NodeHeight: layout.DefaultNodeHeight,
	}

	cmd := &cobra.Command{
		Use:   "explore [tree.json|tree.toml]",
		Short: "Explore a tree interactively in the terminal",
		Long: `Explore a tree interactively in the terminal.

The explorer shows the visible portion of the tree as an indented list.
Collapsing a node hides its descendants while remembering their own
collapse state, so re-expanding restores the previous view.

Keys:
  ↑/k, ↓/j   move the cursor
  space, ⏎   collapse or expand the node under the cursor
  w          write the current view to an SVG next to the input file
  q          quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := tree.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load tree %s: %w", args[0], err)
			}

			model, err := newExploreModel(root, args[0], opts)
			if err != nil {
				return err
			}

			p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("explorer: %w", err)
			}
			if m, ok := final.(exploreModel); ok && m.written != "" {
				printSuccess("Wrote %s", m.written)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&opts.LevelWidth, "level-width", opts.LevelWidth, "horizontal distance between levels")
	cmd.Flags().Float64Var(&opts.NodeHeight, "node-height", opts.NodeHeight, "vertical slot per leaf row")

	return cmd
}
