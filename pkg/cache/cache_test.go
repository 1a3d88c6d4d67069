package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type estimate struct {
	Income float64 `json:"income"`
}

func TestMemoryCacheRoundTripsStructs(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	if err := mc.Set(ctx, "k", estimate{Income: 55000}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var got estimate
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Income != 55000 {
		t.Fatalf("got %+v", got)
	}

	var s string
	if err := mc.Set(ctx, "s", "plain", 0); err != nil {
		t.Fatal(err)
	}
	if err := mc.Get(ctx, "s", &s); err != nil || s != "plain" {
		t.Fatalf("string round trip: %q %v", s, err)
	}
}

func TestMemoryCacheMissAndExpiry(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	var v estimate
	if err := mc.Get(ctx, "absent", &v); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss, got %v", err)
	}

	_ = mc.Set(ctx, "short", estimate{1}, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if err := mc.Get(ctx, "short", &v); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expiry miss, got %v", err)
	}
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()

	_ = mc.Set(ctx, "a", "1", time.Minute)
	time.Sleep(time.Millisecond)
	_ = mc.Set(ctx, "b", "2", time.Minute)
	time.Sleep(time.Millisecond)
	var s string
	_ = mc.Get(ctx, "a", &s) // a is now more recent than b
	time.Sleep(time.Millisecond)
	_ = mc.Set(ctx, "c", "3", time.Minute)

	if ok, _ := mc.Exists(ctx, "b"); ok {
		t.Fatalf("expected b to be evicted")
	}
	if ok, _ := mc.Exists(ctx, "a", "c"); !ok {
		t.Fatalf("expected a or c to remain")
	}
	if mc.Len() != 2 {
		t.Fatalf("len=%d", mc.Len())
	}
}

func TestMemoryCacheDeleteByPattern(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	_ = mc.Set(ctx, "estimate:1", "x", 0)
	_ = mc.Set(ctx, "estimate:2", "y", 0)
	_ = mc.Set(ctx, "narrative:1", "z", 0)
	_ = mc.DeleteByPattern(ctx, "estimate:*")

	if ok, _ := mc.Exists(ctx, "estimate:1", "estimate:2"); ok {
		t.Fatalf("estimate keys should be gone")
	}
	if ok, _ := mc.Exists(ctx, "narrative:1"); !ok {
		t.Fatalf("narrative key should remain")
	}
}

func TestLayeredCachePromotesFromL2(t *testing.T) {
	ctx := context.Background()
	l2 := NewMemoryCache()
	lc := NewLayeredCache(l2, WithLayeredL1TTL(time.Minute))
	defer lc.Close()

	_ = l2.Set(ctx, "k", estimate{Income: 42}, time.Hour)

	var got estimate
	if err := lc.Get(ctx, "k", &got); err != nil || got.Income != 42 {
		t.Fatalf("layered get: %+v", got)
	}
	if ok, _ := lc.l1.Exists(ctx, "k"); !ok {
		t.Fatalf("expected value promoted to L1")
	}

	_ = lc.Delete(ctx, "k")
	if ok, _ := lc.Exists(ctx, "k"); ok {
		t.Fatalf("expected delete from both layers")
	}
}

func TestMatchPattern(t *testing.T) {
	cases := []struct {
		pattern, key string
		want         bool
	}{
		{"*", "anything", true},
		{"a:*", "a:b", true},
		{"a:*", "b:a", false},
		{"*:x", "a:x", true},
		{"a*c*e", "abcde", true},
		{"exact", "exact", true},
		{"exact", "exactly", false},
	}
	for _, tc := range cases {
		if got := matchPattern(tc.pattern, tc.key); got != tc.want {
			t.Fatalf("matchPattern(%q,%q)=%v", tc.pattern, tc.key, got)
		}
	}
}
