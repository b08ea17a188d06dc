package domain

import (
	"github.com/casevault/fieldcrypt/internal/errors"
)

// Field cipher error definitions.
//
// These wrap the shared ErrEncryptionFailed / ErrDecryptionFailed sentinels so
// the retry layer classifies all of them as permanent via errors.Is. The
// messages for wrong-key and corrupted-ciphertext failures deliberately carry
// the "invalid key" and "corrupted data" markers the retry classifier also
// recognizes in errors that crossed a serialization boundary.
var (
	// ErrMissingKey indicates no encryption key was supplied.
	ErrMissingKey = errors.Wrap(errors.ErrEncryptionFailed, "encryption key is required")

	// ErrNilValue indicates a nil value was passed to encrypt. Callers should
	// skip encryption for empty fields rather than encrypt a null marker.
	ErrNilValue = errors.Wrap(errors.ErrEncryptionFailed, "cannot encrypt a nil value")

	// ErrMalformedEnvelope indicates the envelope lacks ciphertext or IV, or
	// carries data that is not base64-decodable.
	ErrMalformedEnvelope = errors.Wrap(errors.ErrDecryptionFailed, "malformed envelope")

	// ErrInvalidKey indicates decryption produced garbage, which means the
	// wrong key was used.
	ErrInvalidKey = errors.Wrap(errors.ErrDecryptionFailed, "invalid key")

	// ErrCorruptedData indicates the ciphertext decrypted but the plaintext is
	// not valid UTF-8 text.
	ErrCorruptedData = errors.Wrap(errors.ErrDecryptionFailed, "corrupted data")
)

func wrapMalformed(err error) error {
	return errors.Wrap(ErrMalformedEnvelope, err.Error())
}
