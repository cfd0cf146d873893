package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreFromClient(client)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRedisStore(t *testing.T) {
	runStoreTests(t, newTestRedisStore(t))
}

func TestRedisStoreExpiredSessionRejected(t *testing.T) {
	ctx := context.Background()
	store := newTestRedisStore(t)

	// A session whose ExpiresAt has already passed is deleted instead of
	// stored, so a read reports it missing.
	sess := New("tree-1", time.Hour)
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestRedisStoreCleanupIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newTestRedisStore(t)

	sess := New("tree-1", time.Hour)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); err != nil {
		t.Errorf("session gone after no-op cleanup: %v", err)
	}
}
