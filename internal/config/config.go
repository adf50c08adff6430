package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Defaults for the timing knobs. Durations are short because every one of
// them backs an ephemeral piece of chat UI.
const (
	DefaultPrefix           = "?"
	DefaultReplyTTL         = 5 * time.Second
	DefaultConfirmWindow    = 4 * time.Second
	DefaultDismissDelay     = 3 * time.Second
	DefaultNotifyTTL        = 7 * time.Second
	DefaultChainWindow      = 15
	DefaultArchiveLookahead = 100
)

// Config represents the flat queuebot configuration
type Config struct {
	Version string `json:"version"`
	Prefix  string `json:"prefix,omitempty"`  // chat command prefix, default "?"
	DBPath  string `json:"db_path,omitempty"` // sqlite path override

	// Timing knobs, in milliseconds. Zero means default.
	ReplyTTLMillis      int `json:"reply_ttl_ms,omitempty"`
	ConfirmWindowMillis int `json:"confirm_window_ms,omitempty"`
	DismissDelayMillis  int `json:"dismiss_delay_ms,omitempty"`
	NotifyTTLMillis     int `json:"notify_ttl_ms,omitempty"`

	// History scan bounds. Zero means default.
	ChainWindow      int `json:"chain_window,omitempty"`
	ArchiveLookahead int `json:"archive_lookahead,omitempty"`
}

// LoadConfig reads .queuebot/config.json from the specified directory.
// Resolution order: cwd only (no home fallback).
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".queuebot", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	botDir := filepath.Join(dir, ".queuebot")
	if err := os.MkdirAll(botDir, 0755); err != nil {
		return fmt.Errorf("failed to create .queuebot dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(botDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// CommandPrefix returns the configured prefix or the default.
func (c *Config) CommandPrefix() string {
	if c.Prefix == "" {
		return DefaultPrefix
	}
	return c.Prefix
}

// ReplyTTL is how long the "will answer" reply stays before self-deleting.
func (c *Config) ReplyTTL() time.Duration {
	return millisOr(c.ReplyTTLMillis, DefaultReplyTTL)
}

// ConfirmWindow is how long a pending confirmation stays open.
func (c *Config) ConfirmWindow() time.Duration {
	return millisOr(c.ConfirmWindowMillis, DefaultConfirmWindow)
}

// DismissDelay is how long a dismissed low-value message keeps its
// acknowledgement before deletion.
func (c *Config) DismissDelay() time.Duration {
	return millisOr(c.DismissDelayMillis, DefaultDismissDelay)
}

// NotifyTTL is how long user-facing failure notices stay before self-deleting.
func (c *Config) NotifyTTL() time.Duration {
	return millisOr(c.NotifyTTLMillis, DefaultNotifyTTL)
}

// ChainWindowSize is the number of prior messages scanned for chain detection.
func (c *Config) ChainWindowSize() int {
	if c.ChainWindow <= 0 {
		return DefaultChainWindow
	}
	return c.ChainWindow
}

// ArchiveLookaheadSize is the number of forward messages scanned when
// assembling an archive record.
func (c *Config) ArchiveLookaheadSize() int {
	if c.ArchiveLookahead <= 0 {
		return DefaultArchiveLookahead
	}
	return c.ArchiveLookahead
}

func millisOr(ms int, def time.Duration) time.Duration {
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}
