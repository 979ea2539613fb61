package services

import (
	"context"
	"sync"
	"testing"

	"github.com/avolkov/orchat/internal/repo"
)

func TestAnalyticsService_TrackAndAggregate(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()
	s := NewAnalyticsService(ctx, db)

	if err := s.TrackMessage(ctx, "gpt-x", 10, 0.5, 7); err != nil {
		t.Fatalf("track 1: %v", err)
	}
	if err := s.TrackMessage(ctx, "gpt-x", 20, 1.0, 3); err != nil {
		t.Fatalf("track 2: %v", err)
	}
	if err := s.TrackMessage(ctx, "claude", 5, 0.2, 10); err != nil {
		t.Fatalf("track 3: %v", err)
	}

	stats := s.GetStatistics()
	if stats.TotalMessages != 3 || stats.TotalTokens != 20 {
		t.Fatalf("totals: %d msgs %d tokens; want 3/20", stats.TotalMessages, stats.TotalTokens)
	}
	if got := stats.ModelUsage["gpt-x"]; got.Count != 2 || got.Tokens != 10 {
		t.Fatalf("gpt-x usage = %+v; want {2 10}", got)
	}
	if got := stats.ModelUsage["claude"]; got.Count != 1 || got.Tokens != 10 {
		t.Fatalf("claude usage = %+v; want {1 10}", got)
	}
	if stats.TokensPerMessage < 6.6 || stats.TokensPerMessage > 6.7 {
		t.Fatalf("tokens per message = %v; want ~6.67", stats.TokensPerMessage)
	}
	if stats.MessagesPerMinute <= 0 {
		t.Fatalf("messages per minute must be positive, got %v", stats.MessagesPerMinute)
	}

	// Rows actually persisted, in order.
	recs, err := repo.ListAnalytics(ctx, db)
	if err != nil || len(recs) != 3 {
		t.Fatalf("persisted rows = %d err=%v; want 3", len(recs), err)
	}
}

func TestAnalyticsService_SeedsFromHistory(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()

	first := NewAnalyticsService(ctx, db)
	if err := first.TrackMessage(ctx, "gpt-x", 10, 0.5, 7); err != nil {
		t.Fatalf("track: %v", err)
	}

	// A fresh service over the same store sees the history.
	second := NewAnalyticsService(ctx, db)
	stats := second.GetStatistics()
	if stats.TotalMessages != 1 || stats.TotalTokens != 7 {
		t.Fatalf("reloaded totals: %d msgs %d tokens; want 1/7", stats.TotalMessages, stats.TotalTokens)
	}
	if len(second.ExportData()) != 1 {
		t.Fatalf("expected 1 exported record")
	}
}

func TestAnalyticsService_ClearDataResetsSessionOnly(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()
	s := NewAnalyticsService(ctx, db)

	if err := s.TrackMessage(ctx, "m", 1, 0.1, 2); err != nil {
		t.Fatalf("track: %v", err)
	}
	s.ClearData()

	stats := s.GetStatistics()
	if stats.TotalMessages != 0 || stats.TotalTokens != 0 || len(s.ExportData()) != 0 {
		t.Fatalf("expected empty session after ClearData, got %+v", stats)
	}

	// Persisted rows survive; only the in-memory session was reset.
	if recs, err := repo.ListAnalytics(ctx, db); err != nil || len(recs) != 1 {
		t.Fatalf("persisted rows = %d err=%v; want 1", len(recs), err)
	}
}

func TestAnalyticsService_ConcurrentTracking(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()
	s := NewAnalyticsService(ctx, db)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				_ = s.TrackMessage(ctx, "m", 1, 0.01, 1)
			}
		}()
	}
	wg.Wait()

	stats := s.GetStatistics()
	if stats.TotalMessages != 100 || stats.TotalTokens != 100 {
		t.Fatalf("totals after concurrent tracking: %d msgs %d tokens; want 100/100", stats.TotalMessages, stats.TotalTokens)
	}
}
