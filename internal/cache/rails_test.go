package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRailKey_EscapesArgument(t *testing.T) {
	got := railKey(3, "feature", "Home Hero")
	want := "rails:v3:feature:Home+Hero"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRailKey_VersionSeparatesGenerations(t *testing.T) {
	if railKey(1, "genre", "Drama") == railKey(2, "genre", "Drama") {
		t.Fatal("keys of different versions must differ")
	}
}

func TestRailKey_KindSeparatesRails(t *testing.T) {
	if railKey(0, "genre", "Action") == railKey(0, "feature", "Action") {
		t.Fatal("genre and feature rails must not share keys")
	}
}

func newTestCache(t *testing.T) (*RailCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRailCache(rdb, time.Minute), mr
}

func TestRailCache_SetThenGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var got []string
	version, hit, err := c.Get(ctx, "genre", "Drama", &got)
	if err != nil || hit {
		t.Fatalf("expected a clean miss, got hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, version, "genre", "Drama", []string{"a", "b"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	_, hit, err = c.Get(ctx, "genre", "Drama", &got)
	if err != nil || !hit {
		t.Fatalf("expected a hit, got hit=%v err=%v", hit, err)
	}
	if len(got) != 2 || got[0] != "a" {
		t.Fatalf("unexpected rail %v", got)
	}
	if ttl := mr.TTL(railKey(0, "genre", "Drama")); ttl != time.Minute {
		t.Errorf("expected 1m TTL, got %s", ttl)
	}
}

func TestRailCache_InvalidateRetiresEntries(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	version, _, _ := c.Get(ctx, "feature", "Home Hero", &[]string{})
	if err := c.Set(ctx, version, "feature", "Home Hero", []string{"old"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	var got []string
	next, hit, err := c.Get(ctx, "feature", "Home Hero", &got)
	if err != nil || hit {
		t.Fatalf("expected a miss after invalidation, got hit=%v err=%v rail=%v", hit, err, got)
	}
	if next != version+1 {
		t.Errorf("expected version %d, got %d", version+1, next)
	}
}

func TestRailCache_RailBuiltAcrossInvalidationIsNotServed(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	// A reader misses, then a mutation invalidates while the reader builds.
	version, hit, err := c.Get(ctx, "genre", "Sci-Fi", &[]string{})
	if err != nil || hit {
		t.Fatalf("expected a clean miss, got hit=%v err=%v", hit, err)
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if err := c.Set(ctx, version, "genre", "Sci-Fi", []string{"pre-mutation"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got []string
	_, hit, err = c.Get(ctx, "genre", "Sci-Fi", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Fatalf("rail computed before invalidation was served: %v", got)
	}
}

func TestRailCache_RedisDownReportsError(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	c := NewRailCache(rdb, time.Minute)

	if _, _, err := c.Get(context.Background(), "genre", "Drama", &[]string{}); err == nil {
		t.Fatal("expected an error with redis unavailable")
	}
}
