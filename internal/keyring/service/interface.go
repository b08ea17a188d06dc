// Package service implements key derivation and the process-wide key lifecycle cache.
package service

import (
	keyringDomain "github.com/casevault/fieldcrypt/internal/keyring/domain"
)

// KeyDeriver defines the interface for deriving a symmetric key from a user identity pair.
type KeyDeriver interface {
	// DeriveKey deterministically derives a symmetric key from the identity pair.
	// Pure function: identical inputs always produce the identical key.
	DeriveKey(userID, email string) (keyringDomain.DerivedKey, error)
}
