// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries over the message
// and analytics logs, used by the CLI status output. Each function is
// context-aware and safe to call from services or commands.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/avolkov/orchat/internal/domain"
)

// MessagesStats returns aggregate metadata for the message log: the total
// number of rows and the timestamp of the most recent exchange.
//
// When the log is empty, the returned count is 0 and lastAt is nil.
func MessagesStats(ctx context.Context, db *gorm.DB) (count int64, lastAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Message{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest timestamp (avoid MAX() -> TEXT in SQLite)
	var row struct {
		Timestamp time.Time
	}
	if err = q.Select("timestamp").Order("timestamp DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.Timestamp, nil
}

// AnalyticsStats returns the row count and total token usage recorded in the
// analytics log.
func AnalyticsStats(ctx context.Context, db *gorm.DB) (count int64, totalTokens int64, err error) {
	q := db.WithContext(ctx).Model(&domain.AnalyticsRecord{})

	if err = q.Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	var row struct {
		Total int64
	}
	if err = q.Select("COALESCE(SUM(tokens_used), 0) AS total").Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return count, row.Total, nil
}
