package store

import (
	"context"
	"errors"
	"testing"

	"github.com/arbor-viz/arbor/pkg/tree"
)

func sampleRoot() tree.Node {
	return tree.Node{
		Text: "services",
		Children: []tree.Node{
			{Text: "api"},
			{Text: "workers", Children: []tree.Node{
				{Text: "ingest"},
			}},
		},
	}
}

func TestNewTreeDoc(t *testing.T) {
	doc := NewTreeDoc("production", sampleRoot())

	if doc.ID == "" {
		t.Error("expected non-empty document ID")
	}
	if doc.Name != "production" {
		t.Errorf("Name = %q, want %q", doc.Name, "production")
	}
	if doc.CreatedAt.IsZero() || doc.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	other := NewTreeDoc("production", sampleRoot())
	if other.ID == doc.ID {
		t.Error("document IDs should be unique")
	}
}

func TestNewTreeDocNameFallback(t *testing.T) {
	doc := NewTreeDoc("", sampleRoot())
	if doc.Name != "services" {
		t.Errorf("Name = %q, want root label %q", doc.Name, "services")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	t.Run("get missing", func(t *testing.T) {
		_, err := s.Get(ctx, "does-not-exist")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("put and get", func(t *testing.T) {
		doc := NewTreeDoc("production", sampleRoot())
		if err := s.Put(ctx, doc); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		got, err := s.Get(ctx, doc.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Name != doc.Name {
			t.Errorf("Name = %q, want %q", got.Name, doc.Name)
		}
		if tree.Count(got.Root) != 4 {
			t.Errorf("node count = %d, want 4", tree.Count(got.Root))
		}
	})

	t.Run("put replaces", func(t *testing.T) {
		doc := NewTreeDoc("staging", sampleRoot())
		if err := s.Put(ctx, doc); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		doc.Name = "staging-eu"
		if err := s.Put(ctx, doc); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		got, err := s.Get(ctx, doc.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Name != "staging-eu" {
			t.Errorf("Name = %q, want %q", got.Name, "staging-eu")
		}
	})

	t.Run("delete", func(t *testing.T) {
		doc := NewTreeDoc("temp", sampleRoot())
		if err := s.Put(ctx, doc); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := s.Delete(ctx, doc.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := s.Get(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
		}
	})
}

func TestMemoryStoreListSorted(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Put(ctx, NewTreeDoc(name, sampleRoot())); err != nil {
			t.Fatalf("Put(%q) error = %v", name, err)
		}
	}

	docs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(docs) != len(want) {
		t.Fatalf("List() returned %d docs, want %d", len(docs), len(want))
	}
	for i, doc := range docs {
		if doc.Name != want[i] {
			t.Errorf("docs[%d].Name = %q, want %q", i, doc.Name, want[i])
		}
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	doc := NewTreeDoc("production", sampleRoot())
	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got.Name = "mutated"

	again, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if again.Name != "production" {
		t.Errorf("stored document mutated through returned copy: Name = %q", again.Name)
	}
}
