package config

import (
	"testing"
	"time"
)

func TestLoadConfigMissing(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(dir)
	if err == nil {
		t.Fatal("expected error for missing config, got nil")
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg := &Config{
		Version:        "1.0",
		Prefix:         "$",
		ReplyTTLMillis: 1500,
		ChainWindow:    30,
	}

	if err := SaveConfig(dir, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.CommandPrefix() != "$" {
		t.Errorf("expected prefix $, got %q", loaded.CommandPrefix())
	}
	if loaded.ReplyTTL() != 1500*time.Millisecond {
		t.Errorf("expected 1.5s reply TTL, got %v", loaded.ReplyTTL())
	}
	if loaded.ChainWindowSize() != 30 {
		t.Errorf("expected chain window 30, got %d", loaded.ChainWindowSize())
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}

	if cfg.CommandPrefix() != DefaultPrefix {
		t.Errorf("expected default prefix, got %q", cfg.CommandPrefix())
	}
	if cfg.ReplyTTL() != DefaultReplyTTL {
		t.Errorf("expected default reply TTL, got %v", cfg.ReplyTTL())
	}
	if cfg.ConfirmWindow() != DefaultConfirmWindow {
		t.Errorf("expected default confirm window, got %v", cfg.ConfirmWindow())
	}
	if cfg.DismissDelay() != DefaultDismissDelay {
		t.Errorf("expected default dismiss delay, got %v", cfg.DismissDelay())
	}
	if cfg.NotifyTTL() != DefaultNotifyTTL {
		t.Errorf("expected default notify TTL, got %v", cfg.NotifyTTL())
	}
	if cfg.ChainWindowSize() != DefaultChainWindow {
		t.Errorf("expected default chain window, got %d", cfg.ChainWindowSize())
	}
	if cfg.ArchiveLookaheadSize() != DefaultArchiveLookahead {
		t.Errorf("expected default archive lookahead, got %d", cfg.ArchiveLookaheadSize())
	}
}
