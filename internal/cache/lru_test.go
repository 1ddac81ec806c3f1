package cache

import (
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)
	c.Set("dashboard:v1", "a")
	c.Set("dashboard:v2", "b")
	if _, ok := c.Get("dashboard:v1"); !ok {
		t.Fatal("v1 should be cached")
	}
	c.Set("dashboard:v3", "c")

	if _, ok := c.Get("dashboard:v2"); ok {
		t.Error("v2 should have been evicted")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUCache_TTL(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[int](10, time.Second)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	c.Set("b", 2)
	now = now.Add(500 * time.Millisecond)
	c.Set("b", 3)

	now = now.Add(700 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Error("a should have expired")
	}
	if v, ok := c.Get("b"); !ok || v != 3 {
		t.Errorf("Get(b) = %v, %v; want 3, true", v, ok)
	}

	now = now.Add(time.Second)
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired() = %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0", c.Size())
	}
}

func TestLRUCache_Stats(t *testing.T) {
	c := NewLRUCache[int](0, time.Minute)
	c.Set("a", 1)
	c.Get("a")
	c.Get("missing")
	c.Set("b", 2)

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Size != 1 {
		t.Errorf("Stats() = %+v", s)
	}

	c.Purge()
	if c.Size() != 0 {
		t.Error("Purge should empty the cache")
	}
}

func TestManager_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewLRUCache[int](4, time.Nanosecond)
	m := NewManager(nil)
	m.Register(c)
	c.Set("a", 1)
	time.Sleep(time.Millisecond)
	if n := m.CleanAll(); n != 1 {
		t.Errorf("CleanAll() = %d, want 1", n)
	}

	m.StartCleanup(time.Millisecond)
	m.Stop()
	m.Stop()
}
