package utils

import (
	"testing"
	"time"
)

func TestTTLCache_SetAndGet(t *testing.T) {
	cache := NewTTLCache[string](time.Hour)

	cache.Set("key", "value")

	got, found := cache.Get("key")
	if !found {
		t.Fatal("Expected to find the cached value")
	}
	if got != "value" {
		t.Errorf("Expected value %q, got %q", "value", got)
	}

	if _, found := cache.Get("missing"); found {
		t.Error("Expected missing key not to be found")
	}
}

func TestTTLCache_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewTTLCache[int](time.Minute)
	cache.now = func() time.Time { return now }

	cache.Set("a", 1)
	now = now.Add(30 * time.Second)
	if v, found := cache.Get("a"); !found || v != 1 {
		t.Errorf("Expected a=1 before expiry, got %d (found=%v)", v, found)
	}

	now = now.Add(time.Minute)
	if v, found := cache.Get("a"); found || v != 0 {
		t.Errorf("Expected zero value after expiry, got %d (found=%v)", v, found)
	}
	if len(cache.items) != 0 {
		t.Errorf("Expected expired item to be removed on read, %d items left", len(cache.items))
	}
}

func TestTTLCache_CleanupExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewTTLCache[string](time.Minute)
	cache.now = func() time.Time { return now }

	cache.Set("old", "x")
	now = now.Add(2 * time.Minute)
	cache.Set("new", "y")

	if removed := cache.CleanupExpired(); removed != 1 {
		t.Errorf("Expected 1 expired item removed, got %d", removed)
	}
	if _, found := cache.Get("new"); !found {
		t.Error("Expected unexpired item to survive cleanup")
	}

	cache.Delete("new")
	if _, found := cache.Get("new"); found {
		t.Error("Expected deleted item to be gone")
	}
}
