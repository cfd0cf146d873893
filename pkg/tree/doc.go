// Package tree defines the immutable labeled tree that arbor lays out.
//
// A tree is a nested value of [Node] structs: every node carries a display
// label and an ordered, possibly empty, sequence of children. Trees are
// supplied by the hosting application (CLI file input, HTTP API, or an
// embedding program) and are never modified by arbor - layout reads them
// and emits a fresh coordinate assignment each time.
//
// # Positional identifiers
//
// Nodes have no identity of their own; arbor derives a deterministic
// identifier from tree position. The root is [RootID] ("n0") and the i-th
// child of a node with id P is "P-i" (see [ChildID]). Two nodes at
// different tree positions can never collide, and identifiers are
// independent of both label text and collapse state. This makes ids the
// stable join key renderers and interactive layers use to track nodes
// across layout recomputations.
//
// # Serialization
//
// Trees serialize as nested JSON objects ({"text": ..., "children": [...]})
// or, for hand-written inputs, as TOML array-of-tables. A missing children
// field is identical to an empty one: both mean leaf.
package tree
