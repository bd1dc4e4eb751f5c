package cache_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/leonardcser/sidecache/internal/cache"
)

func newCache(t *testing.T, capacity int) *cache.Cache[string, string] {
	t.Helper()
	c, err := cache.New[string, string](cache.Config{Capacity: capacity, DefaultTTL: time.Hour})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := cache.New[string, string](cache.Config{Capacity: 0, DefaultTTL: time.Hour}); !errors.Is(err, cache.ErrInvalidCapacity) {
		t.Fatalf("capacity 0: got %v, want ErrInvalidCapacity", err)
	}
	if _, err := cache.New[string, string](cache.Config{Capacity: -1, DefaultTTL: time.Hour}); !errors.Is(err, cache.ErrInvalidCapacity) {
		t.Fatalf("capacity -1: got %v, want ErrInvalidCapacity", err)
	}
	if _, err := cache.New[string, string](cache.Config{Capacity: 1}); !errors.Is(err, cache.ErrInvalidTTL) {
		t.Fatalf("zero ttl: got %v, want ErrInvalidTTL", err)
	}
}

func TestGetMissingKey(t *testing.T) {
	c := newCache(t, 4)
	if v, ok := c.Get("nope"); ok {
		t.Fatalf("Get on empty cache returned %q", v)
	}
}

func TestPutGet(t *testing.T) {
	c := newCache(t, 4)
	c.Put("k", "v")
	v, ok := c.Get("k")
	if !ok || v != "v" {
		t.Fatalf("Get = %q, %v; want \"v\", true", v, ok)
	}
}

func TestCapacityBound(t *testing.T) {
	const capacity = 8
	c := newCache(t, capacity)
	for i := 0; i < 3*capacity; i++ {
		c.Put(fmt.Sprintf("k%d", i), "v")
		if n := c.Len(); n > capacity {
			t.Fatalf("after put %d: Len = %d exceeds capacity %d", i, n, capacity)
		}
	}
}

func TestLRUEvictionOrder(t *testing.T) {
	const capacity = 3
	c := newCache(t, capacity)
	keys := []string{"k1", "k2", "k3", "k4"}
	for _, k := range keys {
		c.Put(k, "v-"+k)
	}

	if _, ok := c.Get("k1"); ok {
		t.Fatal("k1 should have been evicted as least recently used")
	}
	for _, k := range keys[1:] {
		if v, ok := c.Get(k); !ok || v != "v-"+k {
			t.Fatalf("Get(%s) = %q, %v; want survivor", k, v, ok)
		}
	}
}

func TestPromotionDefersEviction(t *testing.T) {
	c := newCache(t, 2)
	c.Put("a", "A")
	c.Put("b", "B")

	// Touch a so that b becomes the LRU tail.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("Get(a) missed")
	}

	c.Put("c", "C")
	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted, not a")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a was evicted despite being promoted")
	}
}

func TestTTLExpiryIndependentOfCapacity(t *testing.T) {
	c := newCache(t, 16)
	c.PutTTL("short", "v", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("short"); ok {
		t.Fatal("expired entry served as a hit")
	}
}

func TestZeroTTLOccupiesSlotUntilRead(t *testing.T) {
	c := newCache(t, 4)
	c.PutTTL("dead", "v", 0)

	// Not reclaimed eagerly: still counted until a read discovers it.
	if n := c.Len(); n != 1 {
		t.Fatalf("Len = %d before read, want 1", n)
	}
	if _, ok := c.Get("dead"); ok {
		t.Fatal("zero-ttl entry served as a hit")
	}
	if n := c.Len(); n != 0 {
		t.Fatalf("Len = %d after read, want 0", n)
	}
}

func TestRemove(t *testing.T) {
	c := newCache(t, 4)
	c.Put("k", "v")

	v, ok := c.Remove("k")
	if !ok || v != "v" {
		t.Fatalf("Remove = %q, %v; want \"v\", true", v, ok)
	}

	// Idempotent: removing an absent key is a no-op.
	if _, ok := c.Remove("k"); ok {
		t.Fatal("second Remove reported a removal")
	}
	if n := c.Len(); n != 0 {
		t.Fatalf("Len = %d, want 0", n)
	}
}

func TestUpdateExistingPromotes(t *testing.T) {
	c := newCache(t, 2)
	c.Put("a", "A")
	c.Put("b", "B")
	c.Put("a", "A2") // overwrite counts as use; a becomes MRU

	c.Put("c", "C")
	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted after a was promoted by update")
	}
	if v, ok := c.Get("a"); !ok || v != "A2" {
		t.Fatalf("Get(a) = %q, %v; want updated value", v, ok)
	}
}

func TestCapacityOne(t *testing.T) {
	c := newCache(t, 1)
	c.Put("a", "A")
	c.Put("b", "B")
	if _, ok := c.Get("a"); ok {
		t.Fatal("a survived in a capacity-1 cache after inserting b")
	}
	if v, ok := c.Get("b"); !ok || v != "B" {
		t.Fatalf("Get(b) = %q, %v", v, ok)
	}
	if n := c.Len(); n != 1 {
		t.Fatalf("Len = %d, want 1", n)
	}
}

func TestKeysOrder(t *testing.T) {
	c := newCache(t, 4)
	c.Put("a", "A")
	c.Put("b", "B")
	c.Put("c", "C")
	c.Get("a")

	got := c.Keys()
	want := []string{"a", "c", "b"}
	if len(got) != len(want) {
		t.Fatalf("Keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys = %v, want %v", got, want)
		}
	}
}

func TestClear(t *testing.T) {
	c := newCache(t, 4)
	c.Put("a", "A")
	c.Put("b", "B")
	c.Clear()
	if n := c.Len(); n != 0 {
		t.Fatalf("Len = %d after Clear, want 0", n)
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("Get(a) hit after Clear")
	}
	// Cleared cache stays usable.
	c.Put("c", "C")
	if _, ok := c.Get("c"); !ok {
		t.Fatal("Get(c) missed after Clear+Put")
	}
}

func TestStats(t *testing.T) {
	c := newCache(t, 2)
	c.Put("a", "A")
	c.Get("a")    // hit
	c.Get("nope") // miss
	c.PutTTL("short", "v", 0)
	c.Get("short") // miss by expiry
	c.Put("b", "B")
	c.Put("c", "C") // evicts LRU

	s := c.Stats()
	if s.Hits != 1 {
		t.Errorf("Hits = %d, want 1", s.Hits)
	}
	if s.Misses != 2 {
		t.Errorf("Misses = %d, want 2", s.Misses)
	}
	if s.Expirations != 1 {
		t.Errorf("Expirations = %d, want 1", s.Expirations)
	}
	if s.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", s.Evictions)
	}
	if got, want := s.HitRatio(), 1.0/3.0; got < want-1e-9 || got > want+1e-9 {
		t.Errorf("HitRatio = %f, want %f", got, want)
	}
}

func TestSweepReclaimsUnreadEntries(t *testing.T) {
	c, err := cache.New[string, string](cache.Config{
		Capacity:        8,
		DefaultTTL:      time.Hour,
		CleanupInterval: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	c.PutTTL("short", "v", 20*time.Millisecond)
	c.Put("long", "v")

	deadline := time.Now().Add(2 * time.Second)
	for c.Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("sweep never reclaimed expired entry; Len = %d", c.Len())
		}
		time.Sleep(10 * time.Millisecond)
	}
	if _, ok := c.Get("long"); !ok {
		t.Fatal("sweep removed a live entry")
	}
}

func TestCloseIdempotent(t *testing.T) {
	c, err := cache.New[string, string](cache.Config{
		Capacity:        2,
		DefaultTTL:      time.Hour,
		CleanupInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Close()
	c.Close()

	// Still usable for foreground operations.
	c.Put("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("cache unusable after Close")
	}
}

func TestConcurrentAccess(t *testing.T) {
	const capacity = 32
	c := newCache(t, capacity)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", (g*7+i)%64)
				switch i % 3 {
				case 0:
					c.Put(key, "v")
				case 1:
					c.Get(key)
				default:
					c.Remove(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if n := c.Len(); n > capacity {
		t.Fatalf("Len = %d exceeds capacity %d after concurrent churn", n, capacity)
	}
}

func TestEndToEndScenario(t *testing.T) {
	c := newCache(t, 2)

	c.Put("u1", "Alice")
	c.Put("u2", "Bob")

	if v, ok := c.Get("u1"); !ok || v != "Alice" {
		t.Fatalf("Get(u1) = %q, %v", v, ok)
	}

	c.Put("u3", "Carol") // evicts u2, the least recently used

	if _, ok := c.Get("u2"); ok {
		t.Fatal("u2 should have been evicted")
	}
	if v, ok := c.Get("u1"); !ok || v != "Alice" {
		t.Fatalf("Get(u1) = %q, %v", v, ok)
	}
	if v, ok := c.Get("u3"); !ok || v != "Carol" {
		t.Fatalf("Get(u3) = %q, %v", v, ok)
	}
}
