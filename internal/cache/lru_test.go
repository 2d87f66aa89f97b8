// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestLRU_BasicOperations(t *testing.T) {
	c := NewLRU[string](3, time.Minute)

	c.Add("a", "alpha")
	c.Add("b", "bravo")
	c.Add("c", "charlie")

	for key, want := range map[string]string{"a": "alpha", "b": "bravo", "c": "charlie"} {
		got, ok := c.Get(key)
		if !ok {
			t.Errorf("Get(%q) missing", key)
			continue
		}
		if got != want {
			t.Errorf("Get(%q) = %q, want %q", key, got, want)
		}
	}

	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU[int](3, time.Minute)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	// a becomes most recently used, leaving b as the eviction candidate
	c.Get("a")
	c.Add("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("expected %s to be present", key)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestLRU_TTLExpiration(t *testing.T) {
	clock := newFakeClock()
	c := NewLRU[int](10, time.Hour)
	c.SetClock(clock.Now)

	c.Add("a", 1)

	clock.Advance(59 * time.Minute)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to be fresh before TTL")
	}

	clock.Advance(time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to expire at TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be removed on access, Len() = %d", c.Len())
	}
}

func TestLRU_AddRefreshesTTL(t *testing.T) {
	clock := newFakeClock()
	c := NewLRU[int](10, time.Hour)
	c.SetClock(clock.Now)

	c.Add("a", 1)
	clock.Advance(50 * time.Minute)
	c.Add("a", 2)
	clock.Advance(50 * time.Minute)

	got, ok := c.Get("a")
	if !ok {
		t.Fatal("expected refreshed entry to be fresh")
	}
	if got != 2 {
		t.Errorf("Get(a) = %d, want 2", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLRU_Clear(t *testing.T) {
	c := NewLRU[int](10, time.Minute)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	if n := c.Clear(); n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", c.Len())
	}

	// list must still be usable after reset
	c.Add("d", 4)
	if _, ok := c.Get("d"); !ok {
		t.Error("expected d after Clear")
	}
}

func TestLRU_CleanupExpiredAndCounts(t *testing.T) {
	clock := newFakeClock()
	c := NewLRU[int](10, time.Hour)
	c.SetClock(clock.Now)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)
	clock.Advance(2 * time.Hour)
	c.Add("d", 4)

	valid, expired := c.Counts()
	if valid != 1 || expired != 3 {
		t.Errorf("Counts() = (%d, %d), want (1, 3)", valid, expired)
	}

	if removed := c.CleanupExpired(); removed != 3 {
		t.Errorf("CleanupExpired() = %d, want 3", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if _, ok := c.Get("d"); !ok {
		t.Error("expected d to remain")
	}
}

func TestLRU_Defaults(t *testing.T) {
	c := NewLRU[int](0, 0)
	if c.Capacity() != 10000 {
		t.Errorf("Capacity() = %d, want 10000", c.Capacity())
	}
	if c.TTL() != 24*time.Hour {
		t.Errorf("TTL() = %v, want 24h", c.TTL())
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[int](100, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k%d", (id+j)%150)
				c.Add(key, j)
				c.Get(key)
				if j%50 == 0 {
					c.CleanupExpired()
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}

func BenchmarkLRU_Add(b *testing.B) {
	c := NewLRU[int](10000, time.Minute)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Add(fmt.Sprintf("k%d", i%20000), i)
	}
}

func BenchmarkLRU_Get(b *testing.B) {
	c := NewLRU[int](10000, time.Minute)
	for i := 0; i < 1000; i++ {
		c.Add(fmt.Sprintf("k%d", i), i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(fmt.Sprintf("k%d", i%1000))
	}
}
