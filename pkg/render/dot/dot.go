// Package dot exports layouts as Graphviz node-link diagrams.
//
// This is the interchange-friendly alternative to the native SVG sink:
// the DOT text can be piped into any Graphviz toolchain, and RenderSVG /
// RenderPNG rasterize it in-process via goccy/go-graphviz.
package dot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/arbor-viz/arbor/pkg/layout"
)

// ToDOT converts a layout to Graphviz DOT format.
//
// Positions computed by the layout engine are emitted as pinned pos
// attributes (in points, y flipped to Graphviz's upward axis), so the
// drawing produced by neato -n matches the native SVG sink. Collapsed
// nodes are drawn with a dashed outline and grey fill.
func ToDOT(res layout.Result) string {
	var buf bytes.Buffer
	buf.WriteString("digraph tree {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range res.Nodes {
		attrs := []string{fmt.Sprintf("label=%q", n.Label)}
		if n.Collapsed {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
		attrs = append(attrs, fmt.Sprintf("pos=\"%.1f,%.1f!\"", n.X, res.Height-n.Y))
		fmt.Fprintf(&buf, "  %q [%s", n.ID, attrs[0])
		for _, a := range attrs[1:] {
			buf.WriteString(", " + a)
		}
		buf.WriteString("];\n")
	}

	buf.WriteString("\n")
	for _, e := range res.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG)
}

func renderFormat(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
