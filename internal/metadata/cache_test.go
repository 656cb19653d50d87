package metadata

import (
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	cache := newResultCache(time.Hour)
	key := searchKey{Query: "dune", Limit: 5, Lang: "en"}

	if _, ok := cache.get(key); ok {
		t.Fatal("empty cache reported a hit")
	}

	cache.put(key, []SearchResult{{Title: "Dune"}})
	results, ok := cache.get(key)
	if !ok || len(results) != 1 || results[0].Title != "Dune" {
		t.Fatalf("get returned %v, %v", results, ok)
	}
}

func TestCacheKeyIncludesAllParameters(t *testing.T) {
	cache := newResultCache(time.Hour)
	cache.put(searchKey{Query: "dune", Limit: 5, Lang: "en"}, []SearchResult{{Title: "Dune"}})

	misses := []searchKey{
		{Query: "dune", Limit: 3, Lang: "en"},
		{Query: "dune", Limit: 5, Lang: "pt"},
		{Query: "Dune", Limit: 5, Lang: "en"},
	}
	for _, key := range misses {
		if _, ok := cache.get(key); ok {
			t.Errorf("key %+v unexpectedly hit", key)
		}
	}
}

func TestCacheExpiry(t *testing.T) {
	cache := newResultCache(time.Hour)
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	key := searchKey{Query: "dune", Limit: 5, Lang: "en"}
	cache.put(key, []SearchResult{{Title: "Dune"}})

	current = current.Add(59 * time.Minute)
	if _, ok := cache.get(key); !ok {
		t.Error("entry expired before its TTL")
	}

	current = current.Add(2 * time.Minute)
	if _, ok := cache.get(key); ok {
		t.Error("entry survived past its TTL")
	}
	if cache.len() != 0 {
		t.Errorf("expired entry not evicted, len = %d", cache.len())
	}
}

func TestCacheReturnsCopies(t *testing.T) {
	cache := newResultCache(time.Hour)
	key := searchKey{Query: "dune", Limit: 5, Lang: "en"}

	original := []SearchResult{{Title: "Dune"}}
	cache.put(key, original)
	original[0].Title = "mutated after put"

	results, _ := cache.get(key)
	if results[0].Title != "Dune" {
		t.Error("put did not copy the stored slice")
	}

	results[0].Title = "mutated after get"
	again, _ := cache.get(key)
	if again[0].Title != "Dune" {
		t.Error("get did not copy the returned slice")
	}
}
