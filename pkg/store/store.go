// Package store persists named trees.
//
// A tree document pairs an immutable tree definition with an identity
// and a display name. Sessions reference trees by ID, so a stored tree
// can back any number of concurrent viewers, each with its own collapse
// state.
//
// Two backends are provided: an in-memory store for tests and
// single-binary serving, and a MongoDB store for shared deployments.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/arbor-viz/arbor/pkg/tree"
)

// ErrNotFound is returned when a tree document does not exist.
var ErrNotFound = errors.New("tree not found")

// TreeDoc is a stored tree definition.
type TreeDoc struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Root      tree.Node `json:"root" bson:"root"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewTreeDoc creates a document for the given root with a fresh ID.
// An empty name falls back to the root node's label.
func NewTreeDoc(name string, root tree.Node) *TreeDoc {
	if name == "" {
		name = root.Text
	}
	now := time.Now()
	return &TreeDoc{
		ID:        uuid.NewString(),
		Name:      name,
		Root:      root,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TreeStore is the interface for tree persistence backends.
type TreeStore interface {
	// Get retrieves a tree document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	Get(ctx context.Context, treeID string) (*TreeDoc, error)

	// Put stores a tree document, replacing any existing document with
	// the same ID.
	Put(ctx context.Context, doc *TreeDoc) error

	// Delete removes a tree document.
	Delete(ctx context.Context, treeID string) error

	// List returns all stored documents sorted by name.
	List(ctx context.Context) ([]*TreeDoc, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
