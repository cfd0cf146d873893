// Package sink renders computed layouts to SVG.
//
// The renderer draws one rounded box per visible node, a bezier connector
// per edge, and a disclosure badge on nodes that can expand or collapse.
// Output is deterministic: nodes and edges are emitted sorted by id, so
// identical layouts always serialize to identical bytes (a requirement for
// content-addressed artifact caching).
package sink

import (
	"bytes"
	"cmp"
	"fmt"
	"html"
	"slices"

	"github.com/arbor-viz/arbor/pkg/layout"
)

// Default visual constants, chosen for the default spacing (300x120):
// a box well inside its slot, with room for connectors between levels.
const (
	defaultBoxWidth  = 180.0
	defaultBoxHeight = 48.0
	defaultFontSize  = 15.0
	defaultMargin    = 24.0
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	boxWidth  float64
	boxHeight float64
	fontSize  float64
	margin    float64
	badges    bool
}

// WithBoxSize sets the node box dimensions.
func WithBoxSize(w, h float64) SVGOption {
	return func(r *svgRenderer) { r.boxWidth, r.boxHeight = w, h }
}

// WithFontSize sets the label font size.
func WithFontSize(s float64) SVGOption {
	return func(r *svgRenderer) { r.fontSize = s }
}

// WithMargin sets the whitespace around the drawing.
func WithMargin(m float64) SVGOption {
	return func(r *svgRenderer) { r.margin = m }
}

// WithoutBadges disables the +/- disclosure badges on parent nodes.
func WithoutBadges() SVGOption {
	return func(r *svgRenderer) { r.badges = false }
}

// RenderSVG renders the layout as a standalone SVG document.
//
// Each layout node's (x, y) addresses the top-left of its slot and each
// box is drawn from that corner, so the slot-sum height accounting of the
// layout maps directly onto non-overlapping boxes. Nodes carry their
// layout id in the element id attribute so interactive consumers can join
// on it.
func RenderSVG(res layout.Result, opts ...SVGOption) []byte {
	r := svgRenderer{
		boxWidth:  defaultBoxWidth,
		boxHeight: defaultBoxHeight,
		fontSize:  defaultFontSize,
		margin:    defaultMargin,
		badges:    true,
	}
	for _, opt := range opts {
		opt(&r)
	}

	nodes := slices.Clone(res.Nodes)
	slices.SortFunc(nodes, func(a, b layout.Node) int { return cmp.Compare(a.ID, b.ID) })
	edges := slices.Clone(res.Edges)
	slices.SortFunc(edges, func(a, b layout.Edge) int { return cmp.Compare(a.ID, b.ID) })

	byID := make(map[string]layout.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	w := res.Width + 2*r.margin
	h := res.Height + 2*r.margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	buf.WriteString(`  <g fill="none" stroke="#94a3b8" stroke-width="1.5">` + "\n")
	for _, e := range edges {
		src, okS := byID[e.Source]
		dst, okD := byID[e.Target]
		if !okS || !okD {
			continue
		}
		x1, y1 := r.rightPort(src)
		x2, y2 := r.leftPort(dst)
		midX := (x1 + x2) / 2
		fmt.Fprintf(&buf, `    <path id=%q d="M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f"/>`+"\n",
			"edge-"+e.ID, x1, y1, midX, y1, midX, y2, x2, y2)
	}
	buf.WriteString("  </g>\n")

	for _, n := range nodes {
		r.renderNode(&buf, n)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, n layout.Node) {
	x, y := r.boxOrigin(n)

	fill := "#ffffff"
	if n.Collapsed {
		fill = "#f1f5f9"
	}

	fmt.Fprintf(buf, `  <g id=%q>`+"\n", "node-"+n.ID)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="8" fill="%s" stroke="#334155" stroke-width="1.5"/>`+"\n",
		x, y, r.boxWidth, r.boxHeight, fill)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.0f" fill="#0f172a" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		x+r.boxWidth/2, y+r.boxHeight/2, r.fontSize, html.EscapeString(n.Label))

	if r.badges && n.HasChildren {
		glyph := "−"
		if n.Collapsed {
			glyph = "+"
		}
		bx, by := x+r.boxWidth, y+r.boxHeight/2
		fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="9" fill="#334155"/>`+"\n", bx, by)
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="13" fill="#ffffff" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			bx, by, glyph)
	}
	buf.WriteString("  </g>\n")
}

// boxOrigin maps a layout position (top of the node's slot) to the
// top-left corner of the drawn box, shifted by the outer margin.
func (r *svgRenderer) boxOrigin(n layout.Node) (float64, float64) {
	return n.X + r.margin, n.Y + r.margin
}

func (r *svgRenderer) rightPort(n layout.Node) (float64, float64) {
	x, y := r.boxOrigin(n)
	return x + r.boxWidth, y + r.boxHeight/2
}

func (r *svgRenderer) leftPort(n layout.Node) (float64, float64) {
	x, y := r.boxOrigin(n)
	return x, y + r.boxHeight/2
}
