package tvr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/domain"
)

// fakeStore is an in-memory Store with call counters and injectable failures.
type fakeStore struct {
	mu      sync.Mutex
	data    map[string]storedEntry
	gets    int
	puts    int
	failPut bool
	failGet bool
}

type storedEntry struct {
	result   domain.TVRResult
	storedAt time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]storedEntry{}}
}

func (s *fakeStore) Get(ctx context.Context, key string, maxAge time.Duration) (*domain.TVRResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.failGet {
		return nil, errors.New("store down")
	}
	e, ok := s.data[key]
	if !ok || time.Since(e.storedAt) >= maxAge {
		return nil, nil
	}
	r := e.result
	return &r, nil
}

func (s *fakeStore) Put(ctx context.Context, key string, result domain.TVRResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.failPut {
		return errors.New("store down")
	}
	s.data[key] = storedEntry{result: result, storedAt: time.Now()}
	return nil
}

func (s *fakeStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string]storedEntry{}
	return nil
}

func (s *fakeStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data), nil
}

func TestCache_PutThenGet(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := NewCache(store, 5*time.Minute, 30*time.Minute)

	want := domain.TVRResult{TVR: 10.0, Impacts: 15000, SpotCount: 2}
	cache.Put(ctx, "k1", want)

	got, ok := cache.Get(ctx, "k1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if store.gets != 0 {
		t.Errorf("memory hit must not touch the store, gets = %d", store.gets)
	}
}

func TestCache_StoreTierReadThrough(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := NewCache(store, 5*time.Minute, 30*time.Minute)

	want := domain.TVRResult{TVR: 4.2, Impacts: 8000, SpotCount: 3}
	cache.Put(ctx, "k1", want)

	// Age the memory entry past its freshness window; the store entry is
	// still within its own, longer window.
	cache.mu.Lock()
	e := cache.entries["k1"]
	e.cachedAt = time.Now().Add(-10 * time.Minute)
	cache.entries["k1"] = e
	cache.mu.Unlock()

	got, ok := cache.Get(ctx, "k1")
	if !ok {
		t.Fatal("expected persistent-tier hit")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if store.gets != 1 {
		t.Errorf("store gets = %d, want 1", store.gets)
	}

	// The store hit must have repopulated the memory tier.
	cache.mu.RLock()
	entry := cache.entries["k1"]
	cache.mu.RUnlock()
	if time.Since(entry.cachedAt) > time.Minute {
		t.Error("memory tier not repopulated after store hit")
	}

	if _, ok := cache.Get(ctx, "k1"); !ok {
		t.Fatal("expected memory hit after repopulation")
	}
	if store.gets != 1 {
		t.Errorf("store gets = %d after repopulation, want still 1", store.gets)
	}
}

func TestCache_FullMiss(t *testing.T) {
	cache := NewCache(newFakeStore(), time.Minute, time.Minute)
	if _, ok := cache.Get(context.Background(), "absent"); ok {
		t.Error("expected full miss")
	}
}

func TestCache_StoreWriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.failPut = true
	cache := NewCache(store, 5*time.Minute, 30*time.Minute)

	want := domain.TVRResult{TVR: 7.5}
	cache.Put(ctx, "k1", want) // must not panic or propagate

	got, ok := cache.Get(ctx, "k1")
	if !ok || got != want {
		t.Errorf("memory tier must stay authoritative, got %+v ok=%v", got, ok)
	}
}

func TestCache_StoreReadFailureIsMiss(t *testing.T) {
	store := newFakeStore()
	store.failGet = true
	cache := NewCache(store, time.Minute, time.Minute)

	if _, ok := cache.Get(context.Background(), "k"); ok {
		t.Error("store failure must surface as a miss, not a hit or panic")
	}
}

func TestCache_NilStore(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(nil, time.Minute, time.Minute)

	cache.Put(ctx, "k", domain.TVRResult{TVR: 1})
	if _, ok := cache.Get(ctx, "k"); !ok {
		t.Error("memory-only cache must still hit")
	}

	stats := cache.Stats(ctx)
	if stats.StoreEntries != -1 {
		t.Errorf("StoreEntries = %d, want -1 without a store", stats.StoreEntries)
	}
}

func TestCache_ClearAndStats(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := NewCache(store, time.Minute, time.Minute)

	cache.Put(ctx, "a", domain.TVRResult{TVR: 1})
	cache.Put(ctx, "b", domain.TVRResult{TVR: 2})

	stats := cache.Stats(ctx)
	if stats.MemoryEntries != 2 || stats.StoreEntries != 2 {
		t.Errorf("stats = %+v, want 2/2", stats)
	}
	if len(stats.MemoryKeys) != 2 || stats.MemoryKeys[0] != "a" {
		t.Errorf("keys = %v, want sorted [a b]", stats.MemoryKeys)
	}

	cache.Clear(ctx)
	stats = cache.Stats(ctx)
	if stats.MemoryEntries != 0 || stats.StoreEntries != 0 {
		t.Errorf("stats after clear = %+v, want 0/0", stats)
	}
}
