// Package state manages view sessions: the collapse state a viewer has
// accumulated over an open tree.
//
// A session pairs a tree with the set of node ids the viewer has toggled
// to hidden-children mode. The session is the only mutable state in the
// system, and it changes exclusively through [Toggle], which replaces the
// whole collapsed set (copy-on-write). A layout computation therefore
// always reads one immutable snapshot; there is no in-place edit a
// concurrent run could observe halfway.
//
// # Stores
//
// The [Store] interface has three implementations:
//   - memory: in-process storage for tests and single-binary serving
//   - file: JSON files in a config directory for CLI use
//   - redis: shared storage for multi-instance deployments
package state

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/arbor-viz/arbor/pkg/tree/collapse"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("session expired")
)

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// Session stores one viewer's collapse state for one tree.
type Session struct {
	ID        string    `json:"id" bson:"id"`
	TreeID    string    `json:"tree_id" bson:"tree_id"`
	Collapsed []string  `json:"collapsed,omitempty" bson:"collapsed,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Set returns the session's collapse state as a set.
func (s *Session) Set() collapse.Set {
	return collapse.FromIDs(s.Collapsed...)
}

// New creates a session for the given tree with an empty collapse state.
// Every node starts expanded. A non-positive ttl means the session never
// expires.
func New(treeID string, ttl time.Duration) *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		TreeID:    treeID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
	return s
}

// Toggle returns a copy of the session with the membership of nodeID
// flipped in its collapse state. The input session is not modified; the
// caller persists the returned copy, matching the whole-set replacement
// contract layout consumers rely on.
func Toggle(s *Session, nodeID string) *Session {
	next := *s
	next.Collapsed = collapse.Toggle(s.Set(), nodeID).IDs()
	next.UpdatedAt = time.Now()
	return &next
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session doesn't exist and ErrExpired if
	// it exists but has passed its TTL.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op for backends with
	// native expiry).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
