// Package domain defines the identity inputs and derived key types for the keyring.
package domain

import (
	validation "github.com/jellydator/validation"

	appvalidation "github.com/casevault/fieldcrypt/internal/validation"
)

// KeyMaterial holds the stable user identity attributes that feed key derivation.
//
// Derivation is a pure function of this pair plus fixed application constants:
// the same pair always yields the same key. The pair is read from the
// authenticated session and never persisted separately.
//
// Fields:
//   - UserID: Stable unique identifier of the authenticated user
//   - Email: Email address of the authenticated user
type KeyMaterial struct {
	UserID string
	Email  string
}

// Validate checks that both identity attributes are present and not blank.
// Returns an error wrapping ErrInvalidInput when validation fails.
func (k KeyMaterial) Validate() error {
	err := validation.ValidateStruct(&k,
		validation.Field(&k.UserID, validation.Required, appvalidation.NotBlank),
		validation.Field(&k.Email, validation.Required, appvalidation.NotBlank),
	)
	return appvalidation.WrapValidationError(err)
}

// CacheKey returns the keyring slot identifier for this identity pair.
func (k KeyMaterial) CacheKey() string {
	return k.UserID + "_" + k.Email
}
