package tree

import "strconv"

// RootID is the positional identifier assigned to the root node.
// Every other identifier is derived from it by appending sibling ordinals.
const RootID = "n0"

// idSeparator joins a parent identifier with a child's sibling index.
const idSeparator = "-"

// Node is a single labeled node in the input tree. The tree is the immutable
// input to layout computation: arbor only ever reads it, and callers retain
// ownership. A node with nil or empty Children is a leaf.
type Node struct {
	Text     string `json:"text" bson:"text" toml:"text"`
	Children []Node `json:"children,omitempty" bson:"children,omitempty" toml:"children"`
}

// IsLeaf reports whether the node has no children.
// An absent children sequence and an empty one are treated identically.
func (n Node) IsLeaf() bool { return len(n.Children) == 0 }

// ChildID derives the positional identifier of the child at sibling
// index i of the node with identifier parent.
//
// Identifiers are a pure function of tree position: the root is always
// [RootID], and the i-th child of a node with id P has id "P-i". They do
// not depend on label text or collapse state, so re-layout after a toggle
// preserves the id of every node whose tree position is unchanged. UI
// elements keyed by id (disclosure controls, selections) stay stable
// across recomputation.
func ChildID(parent string, i int) string {
	return parent + idSeparator + strconv.Itoa(i)
}

// Placeholder returns the default single-node tree used when the hosting
// layer has no input. Layout is never invoked on an absent tree; hosts
// substitute this instead.
func Placeholder() Node {
	return Node{Text: "untitled"}
}

// Count returns the total number of nodes in the tree, including the root.
func Count(root Node) int {
	n := 1
	for _, c := range root.Children {
		n += Count(c)
	}
	return n
}

// Depth returns the number of levels in the tree. A single node has depth 1.
func Depth(root Node) int {
	max := 0
	for _, c := range root.Children {
		if d := Depth(c); d > max {
			max = d
		}
	}
	return max + 1
}

// Walk visits every node in depth-first order, passing each node's
// positional identifier and level. Traversal stops early if fn returns
// false for any node.
func Walk(root Node, fn func(id string, level int, n Node) bool) {
	walk(root, RootID, 0, fn)
}

func walk(n Node, id string, level int, fn func(string, int, Node) bool) bool {
	if !fn(id, level, n) {
		return false
	}
	for i, c := range n.Children {
		if !walk(c, ChildID(id, i), level+1, fn) {
			return false
		}
	}
	return true
}
