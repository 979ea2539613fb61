// Package services – AuthService
//
// This file implements AuthService, the coordinator for the credential
// lifecycle: first login, PIN login, API-key login, and reset. It orchestrates
// the Validator (network) and the credential repository (disk), and carries
// the durable authentication state machine:
//
//	NoCredential -> (first login success) -> Authenticated
//	Authenticated -> (reset) -> NoCredential
//
// Authenticated persists across process restarts because the state lives in
// the store; IsAuthenticated is a storage-presence check, not a session check.
//
// Public methods mirror the shape the UI consumes: a success flag plus two
// message strings. Storage and network failures never escape as errors; they
// are logged and collapsed into the failure message. Internally the
// repository's typed errors keep "no credential" distinguishable from "store
// broken".
package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/avolkov/orchat/internal/repo"
)

// msgSaveFailed is the user-facing message for any credential persistence
// failure. The underlying error goes to the log, not to the user.
const msgSaveFailed = "Failed to save authentication data"

// AuthService coordinates credential validation, PIN issuance, and persisted
// auth state.
type AuthService struct {
	DB        *gorm.DB
	Validator *Validator
}

// HandleFirstLogin validates apiKey remotely and, on success, generates a
// fresh PIN, persists (key, PIN hash), and returns (true, plaintextPIN,
// balance). The plaintext PIN is observable exactly once, here: it cannot be
// recovered later, only reset and regenerated, so the caller must show it to
// the user immediately.
//
// A key that validates but has zero or negative balance is a login failure
// and leaves no credential row behind.
func (s *AuthService) HandleFirstLogin(ctx context.Context, apiKey string) (bool, string, string) {
	ok, balanceMsg, balance := s.Validator.ValidateAPIKey(ctx, apiKey)
	if !ok {
		return false, balanceMsg, ""
	}
	if balance <= 0 {
		return false, ErrNoBalance.Error(), ""
	}

	pin := s.Validator.GeneratePIN()
	if err := repo.SaveCredential(ctx, s.DB, apiKey, s.Validator.HashPIN(pin)); err != nil {
		log.Error().Err(err).Msg("first login: credential save failed")
		return false, msgSaveFailed, ""
	}

	log.Info().Msg("first login complete, PIN issued")
	return true, pin, balanceMsg
}

// HandlePinLogin verifies pin against the stored hash and, on match, returns
// the stored API key. Malformed input (anything but exactly four digits) is
// rejected before storage is touched, with a message distinct from a wrong
// PIN so the UI can hint at the expected format.
func (s *AuthService) HandlePinLogin(ctx context.Context, pin string) (bool, string, string) {
	if !isPINFormat(pin) {
		return false, ErrPINFormat.Error(), ""
	}

	cred, err := repo.GetCredential(ctx, s.DB)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			log.Error().Err(err).Msg("pin login: credential read failed")
		}
		return false, ErrNoCredential.Error(), ""
	}

	if !s.Validator.VerifyPIN(pin, cred.PINHash) {
		return false, ErrPINMismatch.Error(), ""
	}
	return true, cred.APIKey, ""
}

// HandleAPIKeyLogin re-validates apiKey remotely under the same rules as
// first login. When a credential record already exists its PIN hash is
// preserved (key login does not rotate the PIN) and only the key is replaced;
// when none exists this behaves like first login and returns a freshly
// generated PIN.
func (s *AuthService) HandleAPIKeyLogin(ctx context.Context, apiKey string) (bool, string, string) {
	ok, balanceMsg, balance := s.Validator.ValidateAPIKey(ctx, apiKey)
	if !ok {
		return false, balanceMsg, ""
	}
	if balance <= 0 {
		return false, ErrNoBalance.Error(), ""
	}

	if cred, err := repo.GetCredential(ctx, s.DB); err == nil {
		if err := repo.SaveCredential(ctx, s.DB, apiKey, cred.PINHash); err != nil {
			log.Error().Err(err).Msg("key login: credential update failed")
			return false, msgSaveFailed, ""
		}
		log.Info().Msg("API key updated")
		return true, "API key updated successfully", balanceMsg
	} else if !errors.Is(err, repo.ErrNotFound) {
		log.Error().Err(err).Msg("key login: credential read failed")
		return false, msgSaveFailed, ""
	}

	pin := s.Validator.GeneratePIN()
	if err := repo.SaveCredential(ctx, s.DB, apiKey, s.Validator.HashPIN(pin)); err != nil {
		log.Error().Err(err).Msg("key login: credential save failed")
		return false, msgSaveFailed, ""
	}
	return true, pin, balanceMsg
}

// HandleReset unconditionally deletes the stored credential, returning the
// device to the NoCredential state. Chat and analytics history are untouched.
func (s *AuthService) HandleReset(ctx context.Context) bool {
	if err := repo.ClearCredential(ctx, s.DB); err != nil {
		log.Error().Err(err).Msg("reset: credential clear failed")
		return false
	}
	log.Info().Msg("credential reset")
	return true
}

// IsAuthenticated reports whether a credential record exists. It does not
// expire and is false again only after HandleReset.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	ok, err := repo.HasCredential(ctx, s.DB)
	if err != nil {
		log.Error().Err(err).Msg("credential existence check failed")
		return false
	}
	return ok
}

// GetStoredAPIKey returns the persisted key without PIN re-verification, for
// use once the caller has already authenticated in the current session.
// Returns the empty string when no credential exists or the store fails.
func (s *AuthService) GetStoredAPIKey(ctx context.Context) string {
	cred, err := repo.GetCredential(ctx, s.DB)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			log.Error().Err(err).Msg("stored key read failed")
		}
		return ""
	}
	return cred.APIKey
}

// isPINFormat reports whether s is exactly four ASCII digits.
func isPINFormat(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
