// Package services – HistoryService
//
// This file implements HistoryService, which owns the append-only chat log:
// persisting each exchange, reading recent or full history, and clearing the
// log. It is a thin layer over the message repository; validation happens
// here, persistence there.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/avolkov/orchat/internal/domain"
	"github.com/avolkov/orchat/internal/repo"
	"github.com/avolkov/orchat/internal/utils"
)

// DefaultHistoryLimit is how many exchanges ChatHistory returns when the
// caller does not bound the query.
const DefaultHistoryLimit = 50

// HistoryService persists and reads chat exchanges.
type HistoryService struct {
	DB *gorm.DB
}

// SaveMessage appends one exchange stamped with the current time. The user
// message must be non-empty; the response may be empty (a failed completion
// is still worth recording).
func (s *HistoryService) SaveMessage(ctx context.Context, model, userMessage, aiResponse string, tokensUsed int) (*domain.Message, error) {
	if strings.TrimSpace(userMessage) == "" {
		return nil, ErrEmptyMessage
	}
	return repo.CreateMessage(ctx, s.DB, model, userMessage, aiResponse, tokensUsed)
}

// ChatHistory returns the most recent exchanges, newest first. A non-positive
// limit falls back to DefaultHistoryLimit.
func (s *HistoryService) ChatHistory(ctx context.Context, limit int) ([]domain.Message, error) {
	return repo.ListRecentMessages(ctx, s.DB, utils.ClampLimit(limit, DefaultHistoryLimit, 0))
}

// FormattedHistory returns the full log oldest first, the order a transcript
// or export reads in.
func (s *HistoryService) FormattedHistory(ctx context.Context) ([]domain.Message, error) {
	return repo.ListAllMessages(ctx, s.DB)
}

// ClearHistory deletes all chat exchanges. Credential and analytics tables
// are unaffected.
func (s *HistoryService) ClearHistory(ctx context.Context) error {
	return repo.ClearMessages(ctx, s.DB)
}
