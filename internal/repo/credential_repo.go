// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the singleton
// Credential record.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only persistence.
//
// Error semantics:
//   - When no credential exists, read functions return ErrNotFound so callers
//     can distinguish "not set up yet" from a broken store.
//   - On DB errors (locked file, missing table, connectivity issues), the raw
//     gorm error is propagated.
//
// The credential table holds at most one row, keyed by the fixed
// domain.CredentialID. SaveCredential is an engine-level upsert on that key,
// so two concurrent saves resolve to last-writer-wins instead of producing
// duplicate or split-brain state.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avolkov/orchat/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer.
var ErrNotFound = gorm.ErrRecordNotFound

// SaveCredential upserts the singleton credential row. When the row already
// exists, the key, PIN hash, and last-used timestamp are replaced in place
// and created-at is preserved; otherwise a fresh row is inserted with
// created-at = last-used = now.
func SaveCredential(ctx context.Context, db *gorm.DB, apiKey, pinHash string) error {
	now := time.Now().UTC()
	c := &domain.Credential{
		ID:        domain.CredentialID,
		APIKey:    apiKey,
		PINHash:   pinHash,
		CreatedAt: now,
		LastUsed:  now,
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"api_key", "pin_hash", "last_used"}),
	}).Create(c).Error
}

// GetCredential returns the singleton credential row, or ErrNotFound when the
// device has not been set up. Reading touches last_used as a side effect; the
// touch is best-effort and a failed update does not invalidate the read.
func GetCredential(ctx context.Context, db *gorm.DB) (*domain.Credential, error) {
	var c domain.Credential
	if err := db.WithContext(ctx).First(&c, "id = ?", domain.CredentialID).Error; err != nil {
		return nil, err
	}

	db.WithContext(ctx).
		Model(&domain.Credential{}).
		Where("id = ?", domain.CredentialID).
		Update("last_used", time.Now().UTC())

	return &c, nil
}

// HasCredential reports whether a credential row exists. Used to decide which
// login flow applies before any network or hash work is done.
func HasCredential(ctx context.Context, db *gorm.DB) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Credential{}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ClearCredential deletes the singleton credential row. Deleting when no row
// exists is not an error; only storage failures are reported.
func ClearCredential(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).
		Where("id = ?", domain.CredentialID).
		Delete(&domain.Credential{}).Error
}
