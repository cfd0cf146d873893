package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory tree store for development and testing.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*TreeDoc
}

// NewMemoryStore creates a new in-memory tree store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*TreeDoc)}
}

func (s *MemoryStore) Get(ctx context.Context, treeID string) (*TreeDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[treeID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (s *MemoryStore) Put(ctx context.Context, doc *TreeDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *doc
	s.docs[doc.ID] = &copied
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, treeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, treeID)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*TreeDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]*TreeDoc, 0, len(s.docs))
	for _, doc := range s.docs {
		copied := *doc
		docs = append(docs, &copied)
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Name != docs[j].Name {
			return docs[i].Name < docs[j].Name
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ TreeStore = (*MemoryStore)(nil)
