// Package common defines shared constants and sentinel errors used across
// SecureVault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Registration: the username is already taken.
	ErrUsernameTaken = errors.New("username already taken")

	// Authentication: unknown user or wrong password. Intentionally a single
	// value so callers cannot distinguish the two cases.
	ErrAuthFailed = errors.New("authentication failed")

	// Authenticated decryption failed: wrong key, corrupted or tampered
	// ciphertext. Never accompanied by partial plaintext.
	ErrDecryptionFailed = errors.New("decryption failed")

	// Session errors.
	ErrSessionExpired = errors.New("session expired")
	ErrInvalidToken   = errors.New("invalid token")

	// Generic internal failure (never exposes low-level detail).
	ErrInternal = errors.New("internal error")
)
