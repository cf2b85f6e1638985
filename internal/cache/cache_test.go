package cache

import (
	"strings"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	k1 := CacheKey("analyze", "virus", "technology")
	k2 := CacheKey("analyze", "virus", "technology")
	k3 := CacheKey("analyze", "virus", "medicine")

	if k1 != k2 {
		t.Error("Expected identical keys for identical parts")
	}
	if k1 == k3 {
		t.Error("Expected different keys for different parts")
	}
	if !strings.HasPrefix(k1, "termtrack:v1:") {
		t.Errorf("Expected termtrack:v1: prefix, got %s", k1)
	}

	// The separator must keep adjacent parts from colliding
	if CacheKey("ab", "c") == CacheKey("a", "bc") {
		t.Error("Expected different keys for different part boundaries")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("Expected miss for unknown key")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Errorf("Expected v, got %q (found=%v)", val, found)
	}

	_ = c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after delete")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set(CacheKey("analyze", "cloud"), []byte(`{"term":"cloud"}`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get(CacheKey("analyze", "cloud"))
	if !found || string(val) != `{"term":"cloud"}` {
		t.Errorf("Expected cached value, got %q (found=%v)", val, found)
	}
}

func TestDiskCache_Expired(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set("k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected expired entry to miss")
	}
}

func TestLayeredCache_Promotion(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	// Write directly to the disk layer, then read through the layered cache
	disk := NewDiskCache(dir, time.Minute)
	if err := disk.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Errorf("Expected disk value through layered cache, got %q (found=%v)", val, found)
	}

	// After promotion the memory layer serves it even if the disk entry goes away
	_ = disk.Delete("k")
	if _, found := c.Get("k"); !found {
		t.Error("Expected promoted value from memory layer")
	}
}
