package cache

import (
	"testing"
	"time"
)

func TestTTLCacheExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewTTLCache[string]()
	c.now = func() time.Time { return now }

	c.Set("a", "alpha", time.Minute)
	c.Set("b", "beta", 0)

	if v, ok := c.Get("a"); !ok || v != "alpha" {
		t.Fatalf("get a: %q %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("a should have expired")
	}
	if v, ok := c.Get("b"); !ok || v != "beta" {
		t.Fatalf("b must never expire: %q %v", v, ok)
	}
	if c.Len() != 1 {
		t.Fatalf("len %d", c.Len())
	}
}

func TestTTLCacheSweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewTTLCache[int]()
	c.now = func() time.Time { return now }

	for i, k := range []string{"x", "y", "z"} {
		c.Set(k, i, time.Duration(i+1)*time.Second)
	}
	now = now.Add(2500 * time.Millisecond)
	if n := c.Sweep(); n != 2 {
		t.Fatalf("swept %d, want 2", n)
	}
	if _, ok := c.Get("z"); !ok {
		t.Fatalf("z should survive")
	}
	c.Delete("z")
	if c.Len() != 0 {
		t.Fatalf("len %d", c.Len())
	}
}
