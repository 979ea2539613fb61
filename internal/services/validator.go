// Package services – Validator
//
// This file implements the credential validator: it proves an API key is
// usable by checking the account balance against the remote credits endpoint,
// and derives the local unlock material (4-digit PIN, SHA-256 hash).
package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/avolkov/orchat/internal/openrouter"
)

// validateTimeout bounds the remote balance check.
const validateTimeout = 10 * time.Second

// Validator validates API keys against the OpenRouter credits endpoint and
// generates/hashes PINs. The zero value is not usable; set BaseURL (or leave
// empty for the public API).
type Validator struct {
	// BaseURL of the OpenRouter API. Empty means openrouter.DefaultBaseURL.
	BaseURL string
	// Timeout overrides validateTimeout when positive.
	Timeout time.Duration
}

// ValidateAPIKey checks key by fetching the account credits and computing the
// remaining balance (credits minus usage).
//
// It returns (true, "$X.XX", X) when the key is accepted and the payload is
// well-formed. Every failure path (non-200 status, malformed payload, timeout,
// connection refused) collapses to (false, message, 0); nothing is propagated
// as an error. A semantically invalid key is not distinguishable from a
// network fault by the caller, only by the message text.
func (v *Validator) ValidateAPIKey(ctx context.Context, key string) (bool, string, float64) {
	timeout := v.Timeout
	if timeout <= 0 {
		timeout = validateTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := openrouter.New(openrouter.Config{
		APIKey:  key,
		BaseURL: v.BaseURL,
		Timeout: timeout,
	})

	credits, err := client.Credits(ctx)
	if err != nil {
		var apiErr *openrouter.APIError
		if errors.As(err, &apiErr) || errors.Is(err, openrouter.ErrMissingData) {
			return false, "Invalid API key or insufficient permissions", 0
		}
		return false, fmt.Sprintf("Error validating key: %v", err), 0
	}

	balance := credits.Balance()
	return true, fmt.Sprintf("$%.2f", balance), balance
}

// GeneratePIN returns a uniformly random 4-digit PIN in [1000, 9999]. The
// leading digit is never zero, so the width is fixed.
func (v *Validator) GeneratePIN() string {
	return fmt.Sprintf("%d", 1000+rand.Intn(9000))
}

// HashPIN returns the hex-encoded SHA-256 digest of pin. Deterministic and
// unsalted; the stored hash format must stay stable across versions.
func (v *Validator) HashPIN(pin string) string {
	sum := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:])
}

// VerifyPIN hashes candidate and compares it to storedHash in constant time.
func (v *Validator) VerifyPIN(candidate, storedHash string) bool {
	got := v.HashPIN(candidate)
	return subtle.ConstantTimeCompare([]byte(got), []byte(storedHash)) == 1
}
