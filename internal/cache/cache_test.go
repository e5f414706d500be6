package cache

import (
	"sync"
	"testing"
	"time"
)

type recordingObserver struct {
	mu     sync.Mutex
	hits   map[string]int
	misses map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{hits: map[string]int{}, misses: map[string]int{}}
}

func (o *recordingObserver) CacheLookup(cache string, hit bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if hit {
		o.hits[cache]++
	} else {
		o.misses[cache]++
	}
}

func TestCache_GetAdd(t *testing.T) {
	obs := newRecordingObserver()
	c := New[string, bool]("match", Options{Size: 4}, obs)

	if _, ok := c.Get("a;a|b|;1"); ok {
		t.Fatalf("empty cache should miss")
	}
	c.Add("a;a|b|;1", true)
	v, ok := c.Get("a;a|b|;1")
	if !ok || !v {
		t.Fatalf("Get = %v, %v; want true, true", v, ok)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Len != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if obs.hits["match"] != 1 || obs.misses["match"] != 1 {
		t.Errorf("observer = hits %v misses %v", obs.hits, obs.misses)
	}
	if c.Name() != "match" {
		t.Errorf("Name = %q", c.Name())
	}
}

func TestCache_EvictsWhenFull(t *testing.T) {
	c := New[int, int]("bounded", Options{Size: 2}, nil)
	c.Add(1, 1)
	c.Add(2, 2)
	c.Add(3, 3)

	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if _, ok := c.Get(1); ok {
		t.Errorf("oldest entry should have been evicted")
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("evictions = %d, want 1", c.Stats().Evictions)
	}
}

func TestCache_DefaultSize(t *testing.T) {
	c := New[int, int]("default", Options{}, nil)
	for i := 0; i < DefaultSize+10; i++ {
		c.Add(i, i)
	}
	if c.Len() != DefaultSize {
		t.Errorf("Len = %d, want %d", c.Len(), DefaultSize)
	}
}

func TestCache_TTLExpires(t *testing.T) {
	c := New[string, string]("ttl", Options{Size: 8, TTL: 20 * time.Millisecond}, nil)
	c.Add("f", "a|b|")
	if v, ok := c.Get("f"); !ok || v != "a|b|" {
		t.Fatalf("Get = %q, %v", v, ok)
	}

	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get("f"); ok {
		t.Errorf("entry should have expired")
	}
}

func TestCache_Purge(t *testing.T) {
	c := New[string, int]("purge", Options{Size: 8}, nil)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len after Purge = %d", c.Len())
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New[int, int]("concurrent", Options{Size: 64}, newRecordingObserver())
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				c.Add(i%32, g)
				c.Get(i % 32)
			}
		}(g)
	}
	wg.Wait()
	if c.Len() > 64 {
		t.Errorf("Len = %d exceeds bound", c.Len())
	}
	if got := c.Stats().Hits + c.Stats().Misses; got != 8*200 {
		t.Errorf("lookups = %d, want %d", got, 8*200)
	}
}
