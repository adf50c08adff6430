package app

import (
	"context"
	"testing"
)

func TestConfigCacheReadThrough(t *testing.T) {
	repo := newMockConfigRepo()
	repo.set("guild-1", mockConfig{archiveChannelID: "chan-a"})
	cache := NewConfigCache(repo)
	ctx := context.Background()

	record, err := cache.Get(ctx, "guild-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if record.ArchiveChannelID != "chan-a" {
		t.Errorf("expected chan-a, got %q", record.ArchiveChannelID)
	}

	// Second read is served from cache
	if _, err := cache.Get(ctx, "guild-1"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if repo.getCalls != 1 {
		t.Errorf("expected 1 repo read, got %d", repo.getCalls)
	}
}

func TestConfigCacheInvalidate(t *testing.T) {
	repo := newMockConfigRepo()
	repo.set("guild-1", mockConfig{archiveChannelID: "chan-a"})
	cache := NewConfigCache(repo)
	ctx := context.Background()

	if _, err := cache.Get(ctx, "guild-1"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	repo.set("guild-1", mockConfig{archiveChannelID: "chan-b"})

	// Stale until invalidated
	record, _ := cache.Get(ctx, "guild-1")
	if record.ArchiveChannelID != "chan-a" {
		t.Errorf("expected cached chan-a, got %q", record.ArchiveChannelID)
	}

	cache.Invalidate("guild-1")

	record, err := cache.Get(ctx, "guild-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if record.ArchiveChannelID != "chan-b" {
		t.Errorf("expected refreshed chan-b, got %q", record.ArchiveChannelID)
	}
}
