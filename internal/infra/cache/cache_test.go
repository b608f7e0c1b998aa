package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryClientSetGetDel(t *testing.T) {
	ctx := context.Background()
	client := NewMemoryClient()

	if _, err := client.Get(ctx, "missing"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss for absent key, got %v", err)
	}

	if err := client.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := client.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Errorf("expected \"v\", got %q (%v)", got, err)
	}

	if err := client.Del(ctx, "k"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, "k"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestMemoryClientMarshalsStructValues(t *testing.T) {
	ctx := context.Background()
	client := NewMemoryClient()

	type payload struct {
		Score int `json:"score"`
	}
	if err := client.Set(ctx, "k", payload{Score: 42}, 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := client.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != `{"score":42}` {
		t.Errorf("struct values must be stored as JSON, got %q", got)
	}
}

func TestMemoryClientExpiry(t *testing.T) {
	ctx := context.Background()
	client := NewMemoryClient()

	if err := client.Set(ctx, "k", "v", 20*time.Millisecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, err := client.Get(ctx, "k"); err != nil {
		t.Errorf("entry must be readable before expiry, got %v", err)
	}

	time.Sleep(40 * time.Millisecond)
	if _, err := client.Get(ctx, "k"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss after TTL, got %v", err)
	}
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	snapshots := NewSnapshotCache(NewMemoryClient(), time.Minute)

	type snapshot struct {
		Round int `json:"round"`
		Score int `json:"score"`
	}
	if err := snapshots.SetSnapshot(ctx, "game-1", snapshot{Round: 7, Score: 12}); err != nil {
		t.Fatalf("set snapshot failed: %v", err)
	}

	var out snapshot
	if err := snapshots.GetSnapshot(ctx, "game-1", &out); err != nil {
		t.Fatalf("get snapshot failed: %v", err)
	}
	if out.Round != 7 || out.Score != 12 {
		t.Errorf("snapshot did not round-trip: %+v", out)
	}

	if err := snapshots.Invalidate(ctx, "game-1"); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	if err := snapshots.GetSnapshot(ctx, "game-1", &out); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss after invalidate, got %v", err)
	}
}
