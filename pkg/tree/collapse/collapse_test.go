package collapse

import (
	"reflect"
	"testing"
)

func TestToggle(t *testing.T) {
	tests := []struct {
		name string
		init Set
		id   string
		want []string
	}{
		{"AddToEmpty", Set{}, "n0-1", []string{"n0-1"}},
		{"RemoveExisting", FromIDs("n0-1"), "n0-1", []string{}},
		{"AddAlongside", FromIDs("n0-2"), "n0-1", []string{"n0-1", "n0-2"}},
		{"RemoveOneOfTwo", FromIDs("n0-1", "n0-2"), "n0-2", []string{"n0-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Toggle(tt.init, tt.id)
			if !reflect.DeepEqual(got.IDs(), tt.want) {
				t.Errorf("IDs() = %v, want %v", got.IDs(), tt.want)
			}
		})
	}
}

func TestToggleCopyOnWrite(t *testing.T) {
	orig := FromIDs("n0-1")
	_ = Toggle(orig, "n0-2")
	_ = Toggle(orig, "n0-1")

	if !reflect.DeepEqual(orig.IDs(), []string{"n0-1"}) {
		t.Errorf("original set mutated: %v", orig.IDs())
	}
}

func TestToggleIdempotence(t *testing.T) {
	orig := FromIDs("n0-3", "n0-1-0")
	back := Toggle(Toggle(orig, "n0-2"), "n0-2")
	if !Equal(orig, back) {
		t.Errorf("double toggle: %v != %v", orig.IDs(), back.IDs())
	}
}

func TestToggleDoesNotTouchDescendants(t *testing.T) {
	s := FromIDs("n0-1-0")
	s = Toggle(s, "n0-1")
	if !s.Has("n0-1-0") {
		t.Error("toggling an ancestor dropped a descendant's membership")
	}
	s = Toggle(s, "n0-1")
	if !s.Has("n0-1-0") {
		t.Error("expanding an ancestor dropped a descendant's membership")
	}
}

func TestZeroValue(t *testing.T) {
	var s Set
	if s.Len() != 0 || s.Has("n0") {
		t.Error("zero Set is not empty")
	}
	if got := s.IDs(); len(got) != 0 {
		t.Errorf("IDs() = %v, want empty", got)
	}
	s2 := Toggle(s, "n0")
	if !s2.Has("n0") {
		t.Error("toggle on zero Set lost the id")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Set
		want bool
	}{
		{"BothEmpty", Set{}, FromIDs(), true},
		{"Same", FromIDs("a", "b"), FromIDs("b", "a"), true},
		{"DifferentSize", FromIDs("a"), FromIDs("a", "b"), false},
		{"DifferentIDs", FromIDs("a"), FromIDs("b"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}
