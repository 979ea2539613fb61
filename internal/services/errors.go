// Package services defines the business logic for authentication, chat
// history, and analytics. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// Translation into user-facing messages is performed where the coordinator
// builds its result tuples; the distinct values exist so a caller can tell
// "no credential stored" apart from "storage broken" and "PIN malformed"
// apart from "PIN wrong".
package services

import "errors"

// Authentication errors.
var (
	// ErrNoCredential indicates no credential record exists: the device has
	// not completed first login (or has been reset).
	ErrNoCredential = errors.New("no stored credential")

	// ErrPINFormat is returned when a candidate PIN is not exactly four
	// digits. The check runs before any storage access.
	ErrPINFormat = errors.New("PIN must be 4 digits")

	// ErrPINMismatch is returned when a well-formed PIN does not match the
	// stored hash.
	ErrPINMismatch = errors.New("invalid PIN")

	// ErrNoBalance is returned when an API key validates but its balance is
	// zero or negative. Such a key cannot serve requests, so login fails
	// without persisting anything.
	ErrNoBalance = errors.New("API key has no available balance")
)

// History errors.
var (
	// ErrEmptyMessage is returned when an exchange with an empty user message
	// is submitted for persistence.
	ErrEmptyMessage = errors.New("message is empty")
)
