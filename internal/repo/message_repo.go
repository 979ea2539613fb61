// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the append-only
// Message log.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/avolkov/orchat/internal/domain"
)

// CreateMessage appends one chat exchange stamped with the current time.
func CreateMessage(ctx context.Context, db *gorm.DB, model, userMessage, aiResponse string, tokensUsed int) (*domain.Message, error) {
	m := &domain.Message{
		Model:       model,
		UserMessage: userMessage,
		AIResponse:  aiResponse,
		Timestamp:   time.Now().UTC(),
		TokensUsed:  tokensUsed,
	}
	return m, db.WithContext(ctx).Create(m).Error
}

// ListRecentMessages returns up to limit messages, newest first. Ordering is
// deterministic (Timestamp DESC, ID DESC) so rows written within the same
// clock tick keep insertion order.
func ListRecentMessages(ctx context.Context, db *gorm.DB, limit int) ([]domain.Message, error) {
	var out []domain.Message
	q := db.WithContext(ctx).Order("timestamp DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// ListAllMessages returns the full message log, oldest first. This is the
// export/replay path.
func ListAllMessages(ctx context.Context, db *gorm.DB) ([]domain.Message, error) {
	var out []domain.Message
	err := db.WithContext(ctx).
		Order("timestamp ASC, id ASC").
		Find(&out).Error
	return out, err
}

// CountMessages uses a raw COUNT so a missing table surfaces as an error.
func CountMessages(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM messages").Scan(&total).Error
	return total, err
}

// ClearMessages deletes every row from the messages table. The credential and
// analytics tables are untouched.
func ClearMessages(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Exec("DELETE FROM messages").Error
}
