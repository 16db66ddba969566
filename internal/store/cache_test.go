package store

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "sub", "cache.db"), ttl)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_RoundTrip(t *testing.T) {
	c := openTestCache(t, time.Hour)

	if _, ok, err := c.Get("k"); err != nil || ok {
		t.Fatalf("Get on empty = ok %v, err %v", ok, err)
	}
	if err := c.Put("k", "gemini/x", "advice"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	body, ok, err := c.Get("k")
	if err != nil || !ok || body != "advice" {
		t.Fatalf("Get = %q, %v, %v", body, ok, err)
	}

	if err := c.Put("k", "gemini/x", "newer"); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	if body, _, _ := c.Get("k"); body != "newer" {
		t.Errorf("replaced body = %q", body)
	}
}

func TestCache_TTL(t *testing.T) {
	c := openTestCache(t, time.Hour)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	if err := c.Put("old", "p", "stale"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	c.now = func() time.Time { return base.Add(30 * time.Minute) }
	if err := c.Put("fresh", "p", "ok"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	c.now = func() time.Time { return base.Add(61 * time.Minute) }
	if _, ok, _ := c.Get("old"); ok {
		t.Error("expired entry returned")
	}
	if _, ok, _ := c.Get("fresh"); !ok {
		t.Error("fresh entry missing")
	}

	n, err := c.Purge()
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if n != 1 {
		t.Errorf("purged %d, want 1", n)
	}
}

func TestCache_Stats(t *testing.T) {
	c := openTestCache(t, 0)
	if c.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want default", c.ttl)
	}
	_ = c.Put("a", "gemini/x", "1")
	_ = c.Put("b", "gemini/x", "2")
	_ = c.Put("c", "anthropic/y", "3")

	st, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Entries != 3 || st.Providers["gemini/x"] != 2 || st.Providers["anthropic/y"] != 1 {
		t.Errorf("stats = %+v", st)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if st, _ := c.Stats(); st.Entries != 0 {
		t.Errorf("entries after Clear = %d", st.Entries)
	}
}
