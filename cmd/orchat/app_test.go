package main

import (
	"context"
	"path/filepath"
	"testing"
)

func TestNewApp_WiresSharedServices(t *testing.T) {
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "chat_cache.db"))

	a, err := newApp(context.Background())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	if a.auth == nil || a.history == nil || a.analytics == nil {
		t.Fatalf("services not wired: %+v", a)
	}

	// The analytics tracker built at startup is the one the commands use:
	// a message tracked through it shows up in its own statistics without
	// another table load.
	if err := a.analytics.TrackMessage(context.Background(), "gpt-x", 5, 0.1, 3); err != nil {
		t.Fatalf("track: %v", err)
	}
	stats := a.analytics.GetStatistics()
	if stats.TotalMessages != 1 || stats.TotalTokens != 3 {
		t.Fatalf("stats = %+v; want 1 message, 3 tokens", stats)
	}
}
