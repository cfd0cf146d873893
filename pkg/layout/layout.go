package layout

import (
	"errors"

	"github.com/arbor-viz/arbor/pkg/tree"
	"github.com/arbor-viz/arbor/pkg/tree/collapse"
)

var (
	// ErrNonPositiveLevelWidth is returned by [Compute] when the horizontal
	// spacing constant is zero or negative. Spacing is a configuration
	// error and is rejected before any layout work begins.
	ErrNonPositiveLevelWidth = errors.New("level width must be positive")

	// ErrNonPositiveNodeHeight is returned by [Compute] when the vertical
	// slot height is zero or negative.
	ErrNonPositiveNodeHeight = errors.New("node height must be positive")
)

// Default spacing constants. Tuned for 180x48 node boxes with room for
// connector curvature between levels.
const (
	DefaultLevelWidth = 300.0
	DefaultNodeHeight = 120.0
)

// Options holds the spacing constants for a layout computation.
type Options struct {
	// LevelWidth is the horizontal distance between consecutive levels.
	// A node at level L is placed at x = L * LevelWidth.
	LevelWidth float64

	// NodeHeight is the vertical slot occupied by a node with no visible
	// children. Sibling leaf rows are separated by exactly this amount.
	NodeHeight float64
}

// Validate checks that both spacing constants are positive.
func (o Options) Validate() error {
	if o.LevelWidth <= 0 {
		return ErrNonPositiveLevelWidth
	}
	if o.NodeHeight <= 0 {
		return ErrNonPositiveNodeHeight
	}
	return nil
}

// Node is one positioned node in a computed layout.
type Node struct {
	ID    string  `json:"id" bson:"id"`
	Level int     `json:"level" bson:"level"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
	Label string  `json:"label" bson:"label"`

	// HasChildren reflects the underlying tree node, not visibility:
	// a collapsed parent still reports true. Interactive layers use it to
	// decide which nodes expose a toggle affordance.
	HasChildren bool `json:"has_children,omitempty" bson:"has_children,omitempty"`

	// Collapsed reports membership in the collapse set at computation time.
	Collapsed bool `json:"collapsed,omitempty" bson:"collapsed,omitempty"`
}

// Edge is a parent-to-child connector between two visible nodes.
type Edge struct {
	ID     string `json:"id" bson:"id"`
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// EdgeID derives an edge identifier from its ordered endpoint pair.
func EdgeID(source, target string) string {
	return source + "->" + target
}

// Result is a complete layout: one entry in Nodes per visible tree node,
// one entry in Edges per visible non-root node, and the bounding extent of
// the drawing. Both sequences are freshly allocated on every computation.
type Result struct {
	Nodes  []Node  `json:"nodes" bson:"nodes"`
	Edges  []Edge  `json:"edges" bson:"edges"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Node returns the laid-out node with the given id and true, or a zero
// Node and false if no visible node has that id.
func (r Result) Node(id string) (Node, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Compute lays out the visible portion of the tree and returns positioned
// nodes plus parent-child connectors.
//
// The computation is a pure function of its three inputs: the same tree,
// collapse set, and spacing always produce the same Result, and nothing is
// mutated along the way. Visibility is decided per node - a node is hidden
// exactly when some ancestor's id is in collapsed - and the root is always
// visible. Each recursive call returns locally built slices that the caller
// concatenates, so there are no shared accumulators between branches.
//
// Positioning follows a single top-to-bottom sweep:
//
//   - x is always level * LevelWidth.
//   - A node with no visible children (leaf, or collapsed parent) sits at
//     the running vertical cursor and consumes one NodeHeight slot.
//   - A node with visible children lays them out in order, each child
//     starting where the previous one ended, and centers itself at the
//     midpoint of its first and last child's y. The subtree's total height
//     is the sum of its children's heights.
//
// Centering on the extreme children (not the mean of all of them) keeps a
// parent between its outermost rows even when the intermediate children
// are distributed unevenly.
func Compute(root tree.Node, collapsed collapse.Set, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	s := subtree(root, tree.RootID, "", 0, 0, collapsed, opts)

	res := Result{
		Nodes:  s.nodes,
		Edges:  s.edges,
		Height: s.height,
	}
	maxLevel := 0
	for _, n := range res.Nodes {
		if n.Level > maxLevel {
			maxLevel = n.Level
		}
	}
	res.Width = float64(maxLevel)*opts.LevelWidth + opts.LevelWidth
	return res, nil
}

// placed is the return value of one recursive layout step: the rows and
// connectors of a whole subtree, the subtree root's own y (needed by the
// parent for centering), and the vertical extent the subtree consumed.
type placed struct {
	nodes  []Node
	edges  []Edge
	y      float64
	height float64
}

func subtree(n tree.Node, id, parentID string, level int, yOffset float64, collapsed collapse.Set, opts Options) placed {
	hasChildren := !n.IsLeaf()
	isCollapsed := collapsed.Has(id)

	self := Node{
		ID:          id,
		Level:       level,
		X:           float64(level) * opts.LevelWidth,
		Label:       n.Text,
		HasChildren: hasChildren,
		Collapsed:   isCollapsed,
	}

	var edges []Edge
	if parentID != "" {
		edges = append(edges, Edge{ID: EdgeID(parentID, id), Source: parentID, Target: id})
	}

	if !hasChildren || isCollapsed {
		self.Y = yOffset
		return placed{
			nodes:  []Node{self},
			edges:  edges,
			y:      yOffset,
			height: opts.NodeHeight,
		}
	}

	var (
		children   []placed
		cursor     = yOffset
		total      float64
		childNodes int
		childEdges int
	)
	for i, c := range n.Children {
		p := subtree(c, tree.ChildID(id, i), id, level+1, cursor, collapsed, opts)
		children = append(children, p)
		cursor += p.height
		total += p.height
		childNodes += len(p.nodes)
		childEdges += len(p.edges)
	}

	// Midpoint of the first and last child's own rows. The inherited
	// offset is the fallback if no child produced a row; it keeps the
	// layout total instead of failing.
	self.Y = yOffset
	if len(children) > 0 {
		self.Y = (children[0].y + children[len(children)-1].y) / 2
	}

	nodes := make([]Node, 0, 1+childNodes)
	nodes = append(nodes, self)
	out := make([]Edge, 0, len(edges)+childEdges)
	out = append(out, edges...)
	for _, p := range children {
		nodes = append(nodes, p.nodes...)
		out = append(out, p.edges...)
	}

	return placed{nodes: nodes, edges: out, y: self.Y, height: total}
}
