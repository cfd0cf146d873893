// Package layout converts a labeled tree into a non-overlapping 2-D
// arrangement of rows and connectors for left-to-right tree diagrams.
//
// [Compute] is the whole API surface that matters: it maps a tree, a
// collapse set, and two spacing constants to a flat node list and a flat
// edge list. It is pure and total - no I/O, no shared state, no partial
// updates - and is recomputed wholesale whenever the tree is replaced or a
// collapse toggle fires. Each run is linear in the number of visible
// nodes, so there is no cancellation path.
//
// The guarantees consumers can rely on:
//
//   - every visible node appears exactly once, keyed by its stable
//     positional id
//   - a layout with k visible nodes has exactly k-1 edges, one per
//     visible non-root node, always parent to child
//   - x = level * LevelWidth, and leaf rows under one expanded parent are
//     separated by exactly NodeHeight in sibling order
//   - an expanded parent sits at the vertical midpoint of its first and
//     last child's rows
//
// Rendered left to right the result is a planar tree drawing with no
// crossing connectors within a column.
package layout
