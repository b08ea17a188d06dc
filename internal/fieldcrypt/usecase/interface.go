// Package usecase implements field-level projections over the field cipher:
// encrypting/decrypting declared subsets of record fields and lazy,
// memoized decryption for list views.
package usecase

import (
	"context"

	fieldcryptDomain "github.com/casevault/fieldcrypt/internal/fieldcrypt/domain"
	keyringDomain "github.com/casevault/fieldcrypt/internal/keyring/domain"
)

// FieldCipher defines the cipher operations the projector needs.
type FieldCipher interface {
	// Encrypt encrypts a JSON-serializable value into a versioned envelope.
	Encrypt(ctx context.Context, value any, key keyringDomain.DerivedKey) (*fieldcryptDomain.Envelope, error)

	// Decrypt recovers the original value from an envelope.
	Decrypt(ctx context.Context, env *fieldcryptDomain.Envelope, key keyringDomain.DerivedKey) (any, error)
}

// FieldProjector applies the field cipher across a declared subset of a
// record's fields, leaving unlisted fields untouched.
type FieldProjector interface {
	// EncryptFields returns a shallow copy of record where every listed field
	// that is present and non-nil is replaced by its encrypted envelope.
	EncryptFields(
		ctx context.Context,
		record map[string]any,
		fields []string,
		key keyringDomain.DerivedKey,
	) (map[string]any, error)

	// DecryptFields returns a shallow copy of record where every listed field
	// holding an envelope is replaced by its decrypted value. A per-field
	// decryption failure degrades that field to nil instead of failing the
	// whole record.
	DecryptFields(
		ctx context.Context,
		record map[string]any,
		fields []string,
		key keyringDomain.DerivedKey,
	) (map[string]any, error)
}
