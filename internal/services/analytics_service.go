// Package services – AnalyticsService
//
// This file implements AnalyticsService, the usage tracker: one analytics row
// is persisted per sent message, and aggregates (totals, per-model breakdown,
// messages per minute) are computed on read by summing in memory over the
// full history loaded at startup plus whatever the session appended. There
// are no persisted aggregate tables.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/avolkov/orchat/internal/domain"
	"github.com/avolkov/orchat/internal/repo"
)

// ModelUsage aggregates per-model counters.
type ModelUsage struct {
	Count  int `json:"count"`
	Tokens int `json:"tokens"`
}

// Statistics is the aggregate view computed from the tracked history.
type Statistics struct {
	TotalMessages     int                   `json:"total_messages"`
	TotalTokens       int                   `json:"total_tokens"`
	SessionDuration   time.Duration         `json:"session_duration"`
	MessagesPerMinute float64               `json:"messages_per_minute"`
	TokensPerMessage  float64               `json:"tokens_per_message"`
	ModelUsage        map[string]ModelUsage `json:"model_usage"`
}

// AnalyticsService records per-message metrics and serves aggregates.
// Safe for concurrent use.
type AnalyticsService struct {
	db *gorm.DB

	mu      sync.Mutex
	start   time.Time
	byModel map[string]ModelUsage
	session []domain.AnalyticsRecord
}

// NewAnalyticsService builds the tracker and seeds its in-memory aggregates
// from the persisted analytics history. A failed load starts an empty session
// rather than failing construction; the store may still accept new rows.
func NewAnalyticsService(ctx context.Context, db *gorm.DB) *AnalyticsService {
	s := &AnalyticsService{
		db:      db,
		start:   time.Now(),
		byModel: make(map[string]ModelUsage),
	}

	history, err := repo.ListAnalytics(ctx, db)
	if err != nil {
		log.Warn().Err(err).Msg("analytics history unavailable, starting empty")
		return s
	}
	for _, rec := range history {
		s.apply(rec)
	}
	return s
}

// TrackMessage persists one analytics row and folds it into the in-memory
// aggregates. The persistence failure, if any, is returned after the
// in-memory state is updated, so session statistics stay consistent with what
// the user saw even when the disk is unhappy.
func (s *AnalyticsService) TrackMessage(ctx context.Context, model string, messageLength int, responseTime float64, tokensUsed int) error {
	rec := domain.AnalyticsRecord{
		Timestamp:     time.Now().UTC(),
		Model:         model,
		MessageLength: messageLength,
		ResponseTime:  responseTime,
		TokensUsed:    tokensUsed,
	}

	s.mu.Lock()
	s.apply(rec)
	s.mu.Unlock()

	if err := repo.CreateAnalytics(ctx, s.db, &rec); err != nil {
		log.Error().Err(err).Msg("analytics row not persisted")
		return err
	}
	return nil
}

// GetStatistics computes the aggregate view over everything tracked so far.
func (s *AnalyticsService) GetStatistics() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	var totalMessages, totalTokens int
	for _, u := range s.byModel {
		totalMessages += u.Count
		totalTokens += u.Tokens
	}

	elapsed := time.Since(s.start)
	stats := Statistics{
		TotalMessages:   totalMessages,
		TotalTokens:     totalTokens,
		SessionDuration: elapsed,
		ModelUsage:      make(map[string]ModelUsage, len(s.byModel)),
	}
	if elapsed > 0 {
		stats.MessagesPerMinute = float64(totalMessages) * 60 / elapsed.Seconds()
	}
	if totalMessages > 0 {
		stats.TokensPerMessage = float64(totalTokens) / float64(totalMessages)
	}
	for m, u := range s.byModel {
		stats.ModelUsage[m] = u
	}
	return stats
}

// ExportData returns a copy of every record tracked this session, including
// the history loaded at startup.
func (s *AnalyticsService) ExportData() []domain.AnalyticsRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AnalyticsRecord, len(s.session))
	copy(out, s.session)
	return out
}

// ClearData resets the in-memory session: counters, records, and the session
// clock. Persisted analytics rows are not deleted.
func (s *AnalyticsService) ClearData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byModel = make(map[string]ModelUsage)
	s.session = nil
	s.start = time.Now()
}

// apply folds one record into the aggregates. Callers hold s.mu (or own s
// exclusively during construction).
func (s *AnalyticsService) apply(rec domain.AnalyticsRecord) {
	u := s.byModel[rec.Model]
	u.Count++
	u.Tokens += rec.TokensUsed
	s.byModel[rec.Model] = u
	s.session = append(s.session, rec)
}
