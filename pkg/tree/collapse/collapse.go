// Package collapse tracks which subtrees are hidden from layout.
//
// A [Set] holds the node identifiers whose children are currently toggled
// out of visibility. The set is caller-owned process state: it outlives any
// single layout computation and is re-supplied on every one. All operations
// are copy-on-write - [Toggle] returns a new set and never modifies its
// input - so a layout run in progress always observes one consistent
// snapshot of the collapse state for its entire execution.
//
// Membership is tracked per node independently. Collapsing an ancestor
// hides a descendant's rows from the output, but the descendant's own
// membership is untouched: it resumes effect as soon as expanding the
// ancestor exposes it again.
package collapse

import (
	"maps"
	"slices"
)

// Set is an immutable set of collapsed node identifiers.
// The zero value is an empty set and is ready to use.
type Set struct {
	ids map[string]struct{}
}

// FromIDs builds a set containing the given identifiers.
// Duplicates are folded.
func FromIDs(ids ...string) Set {
	if len(ids) == 0 {
		return Set{}
	}
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return Set{ids: m}
}

// Has reports whether id is collapsed.
func (s Set) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of collapsed identifiers.
func (s Set) Len() int { return len(s.ids) }

// IDs returns the collapsed identifiers in sorted order.
// Sorting keeps serialized collapse state and cache keys deterministic.
func (s Set) IDs() []string {
	ids := slices.Collect(maps.Keys(s.ids))
	slices.Sort(ids)
	return ids
}

// Toggle returns a new set with the membership of id flipped. The receiver
// is never modified. Toggling the same id twice restores a set equal to the
// original, and no other id's state is touched.
//
// Toggle accepts any identifier, including ids of leaves: marking a leaf
// collapsed has no visible effect on layout (there are no children to
// hide) but is a legal state transition.
func Toggle(s Set, id string) Set {
	m := make(map[string]struct{}, len(s.ids)+1)
	maps.Copy(m, s.ids)
	if _, ok := m[id]; ok {
		delete(m, id)
	} else {
		m[id] = struct{}{}
	}
	return Set{ids: m}
}

// Equal reports whether two sets contain the same identifiers.
func Equal(a, b Set) bool {
	if len(a.ids) != len(b.ids) {
		return false
	}
	for id := range a.ids {
		if _, ok := b.ids[id]; !ok {
			return false
		}
	}
	return true
}
