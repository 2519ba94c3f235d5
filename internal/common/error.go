// Package common defines shared constants and sentinel errors used across
// the card keeper layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrCorruptRecord signals that a record listed in the all-IDs index is
	// missing a mandatory field. This indicates a logic bug, not a user
	// condition; callers are expected to fail fast.
	ErrCorruptRecord = errors.New("corrupt record: mandatory field missing")

	// Preference-array errors.
	ErrInvalidElement = errors.New("invalid array element")

	// Store-level errors.
	ErrTypeMismatch = errors.New("preference value type mismatch")
)
