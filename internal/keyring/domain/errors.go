package domain

import (
	"github.com/casevault/fieldcrypt/internal/errors"
)

// Keyring error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors so
// the retry layer can classify all of them as permanent via errors.Is.
var (
	// ErrMissingIdentity indicates the user id or email required for key
	// derivation is absent or blank. Caller bug; never retried.
	ErrMissingIdentity = errors.Wrap(errors.ErrInvalidInput, "user id and email are required")

	// ErrInvalidKeyEncoding indicates a derived key is not valid hex or does
	// not decode to exactly 32 bytes.
	ErrInvalidKeyEncoding = errors.Wrap(errors.ErrInvalidInput, "derived key must be hex-encoded 32 bytes")
)
