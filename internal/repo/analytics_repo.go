// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the append-only
// analytics log.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/avolkov/orchat/internal/domain"
)

// CreateAnalytics appends one analytics row. A zero timestamp is stamped with
// the current time.
func CreateAnalytics(ctx context.Context, db *gorm.DB, rec *domain.AnalyticsRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(rec).Error
}

// ListAnalytics returns the full analytics history, oldest first and
// unbounded. Aggregation happens in memory at the service layer; there are no
// persisted aggregate tables.
func ListAnalytics(ctx context.Context, db *gorm.DB) ([]domain.AnalyticsRecord, error) {
	var out []domain.AnalyticsRecord
	err := db.WithContext(ctx).
		Order("timestamp ASC, id ASC").
		Find(&out).Error
	return out, err
}
