package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arbor-viz/arbor/pkg/layout"
	"github.com/arbor-viz/arbor/pkg/pipeline"
	"github.com/arbor-viz/arbor/pkg/tree"
)

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		collapsed  string
		noCache    bool
	)
	opts := pipeline.Options{}
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()

	cmd := &cobra.Command{
		Use:   "render [tree.json|tree.toml|file.layout.json]",
		Short: "Render a tree to SVG, PNG, PDF, DOT, or JSON",
		Long: `Render a tree to one or more output formats.

The render command runs the full layout and render pipeline for a tree
file, or renders a precomputed .layout.json file (as written by the
'layout' command) directly. SVG is the default output; PNG and PDF
conversion shell out to rsvg-convert, and the graphviz engine routes
SVG/PNG through Graphviz with pinned node positions.

Pass --collapsed to hide the children of specific nodes before
rendering, exactly like the interactive explorer does.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			opts.Collapsed = parseCollapsed(collapsed)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateStyle(opts.Style); err != nil {
				return err
			}
			if err := pipeline.ValidateEngine(opts.Engine); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.Style, "style", opts.Style, "visual style: clean (default), compact")
	cmd.Flags().StringVar(&opts.Engine, "engine", opts.Engine, "render engine: native (default), graphviz")
	cmd.Flags().Float64Var(&opts.PNGScale, "scale", opts.PNGScale, "raster scale factor for PNG output")
	cmd.Flags().StringVar(&collapsed, "collapsed", "", "comma-separated node ids to collapse")
	cmd.Flags().Float64Var(&opts.LevelWidth, "level-width", opts.LevelWidth, "horizontal distance between levels")
	cmd.Flags().Float64Var(&opts.NodeHeight, "node-height", opts.NodeHeight, "vertical slot per leaf row")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender executes the pipeline and writes one file per format.
// A .layout.json input skips the layout stage and renders the stored
// positions directly.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	var result *pipeline.Result
	if strings.HasSuffix(input, ".layout.json") {
		result, err = renderLayoutFile(ctx, runner, input, opts)
	} else {
		var root tree.Node
		root, err = tree.ReadFile(input)
		if err == nil {
			result, err = runner.Execute(ctx, root, opts)
		}
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if spinner.Cancelled() {
		printWarning("Cancelled")
		return ctx.Err()
	}

	printSuccess("Render complete")
	for _, format := range opts.Formats {
		path := outputPath(input, output, format, len(opts.Formats) > 1)
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)

	return nil
}

// renderLayoutFile renders a previously computed layout file.
func renderLayoutFile(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options) (*pipeline.Result, error) {
	l, err := layout.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("load layout %s: %w", input, err)
	}
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, err
	}
	return &pipeline.Result{
		Layout:    l,
		Artifacts: artifacts,
		Stats: pipeline.Stats{
			NodeCount: len(l.Nodes),
			EdgeCount: len(l.Edges),
		},
		CacheInfo: pipeline.CacheInfo{RenderHit: hit},
	}, nil
}

// outputPath derives the output file name for one format. An explicit
// output wins for a single format and becomes a base path when several
// formats are requested.
func outputPath(input, output, format string, multi bool) string {
	ext := "." + format
	if output == "" {
		base := strings.TrimSuffix(input, ".layout.json")
		return strings.TrimSuffix(base, filepath.Ext(base)) + ext
	}
	if multi {
		return strings.TrimSuffix(output, filepath.Ext(output)) + ext
	}
	return output
}
