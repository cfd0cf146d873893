package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arbor-viz/arbor/pkg/layout"
	"github.com/arbor-viz/arbor/pkg/pipeline"
	"github.com/arbor-viz/arbor/pkg/tree"
)

// layoutCommand creates the layout command for computing tree layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output    string
		collapsed string
		noCache   bool
	)
	opts := pipeline.Options{}
	opts.SetLayoutDefaults()

	cmd := &cobra.Command{
		Use:   "layout [tree.json|tree.toml]",
		Short: "Compute node positions for a tree",
		Long: `Compute node positions for a tree.

The layout command takes a tree file (JSON or TOML) and computes x/y
positions for every visible node. The output is a layout.json file
(same format as 'render -f json') that can be rendered to SVG/PNG/PDF
using the 'render' command or inspected directly.

Node ids are positional: the root is "n0" and the i-th child of a node
P is "P-i". Pass --collapsed to hide the children of specific nodes.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Collapsed = parseCollapsed(collapsed)
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Layout flags
	cmd.Flags().StringVar(&collapsed, "collapsed", "", "comma-separated node ids to collapse (e.g. n0-1,n0-2-0)")
	cmd.Flags().Float64Var(&opts.LevelWidth, "level-width", opts.LevelWidth, "horizontal distance between levels")
	cmd.Flags().Float64Var(&opts.NodeHeight, "node-height", opts.NodeHeight, "vertical slot per leaf row")

	return cmd
}

// runLayout loads the tree, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	root, err := tree.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(loggerFromContext(ctx))

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	result, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, root, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Laid out %d nodes", len(result.Nodes)))

	if spinner.Cancelled() {
		printWarning("Cancelled")
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := layout.WriteFile(result, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(result.Nodes), len(result.Edges), cacheHit)
	printNewline()
	printNextStep("Render", "arbor render "+input)

	return nil
}
