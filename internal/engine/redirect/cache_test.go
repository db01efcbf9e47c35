package redirect

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheHitAndMiss(t *testing.T) {
	cache := NewMemoryCache(time.Second)
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "abc123"); ok {
		t.Error("Expected miss on empty cache")
	}

	cache.Set(ctx, "abc123", &Entry{Short: "abc123", Original: "https://example.com"})

	entry, ok := cache.Get(ctx, "abc123")
	if !ok {
		t.Fatal("Expected hit")
	}
	if entry.Original != "https://example.com" {
		t.Errorf("Expected https://example.com, got %s", entry.Original)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache(30 * time.Millisecond)
	ctx := context.Background()

	cache.Set(ctx, "abc123", &Entry{Short: "abc123", Original: "https://example.com"})

	time.Sleep(50 * time.Millisecond)

	if _, ok := cache.Get(ctx, "abc123"); ok {
		t.Error("Expected expired entry to miss")
	}
}

func TestMemoryCacheOverwrite(t *testing.T) {
	cache := NewMemoryCache(time.Second)
	ctx := context.Background()

	cache.Set(ctx, "abc123", &Entry{Short: "abc123", Original: "https://old.com"})
	cache.Set(ctx, "abc123", &Entry{Short: "abc123", Original: "https://new.com"})

	entry, ok := cache.Get(ctx, "abc123")
	if !ok || entry.Original != "https://new.com" {
		t.Errorf("Expected overwritten entry, got %v %v", entry, ok)
	}
}
