// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by services
// and use cases and classified (permanent vs transient) by the retry layer.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEncryptionFailed indicates an encryption operation could not be performed,
	// typically because the key is missing or the value is empty. Caller bug; never retried.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed indicates a decryption operation failed due to a malformed
	// envelope, a wrong key, or corrupted ciphertext. Permanent; never retried.
	ErrDecryptionFailed = errors.New("decryption failed")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
