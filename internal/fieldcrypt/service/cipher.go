// Package service implements the symmetric field cipher used for
// client-side encryption of sensitive record fields.
package service

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/casevault/fieldcrypt/internal/errors"
	fieldcryptDomain "github.com/casevault/fieldcrypt/internal/fieldcrypt/domain"
	keyringDomain "github.com/casevault/fieldcrypt/internal/keyring/domain"
)

// Cipher encrypts and decrypts arbitrary JSON-serializable values using
// AES-256-CBC with PKCS#7 padding.
//
// CBC with a random per-call IV is the frozen wire format: envelopes produced
// here must round-trip with envelopes already held by existing installations,
// so the mode cannot be swapped for an AEAD without a new envelope version.
// Wrong-key detection therefore relies on padding validation and a UTF-8
// check on the recovered plaintext instead of an authentication tag.
//
// Thread safety: the cipher is stateless and safe for concurrent use. Each
// encryption generates a unique IV independently.
type Cipher struct{}

// NewCipher creates a new field cipher.
func NewCipher() *Cipher {
	return &Cipher{}
}

// Encrypt encrypts a JSON-serializable value into a versioned envelope.
//
// Strings are encrypted as-is; all other values are serialized to JSON text
// first, which lets Decrypt round-trip both plain strings and structured
// values through a single function. A fresh random 16-byte IV is generated
// per call and never reused, so ciphertext is non-deterministic even for
// identical plaintext.
//
// Fails with an ErrEncryptionFailed-wrapped error when the key is absent or
// the value is nil: callers should skip encryption for empty fields, not
// encrypt a null marker.
func (c *Cipher) Encrypt(
	ctx context.Context,
	value any,
	key keyringDomain.DerivedKey,
) (*fieldcryptDomain.Envelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if value == nil {
		return nil, fieldcryptDomain.ErrNilValue
	}
	if key.IsZero() {
		return nil, fieldcryptDomain.ErrMissingKey
	}

	plaintext, err := serialize(value)
	if err != nil {
		return nil, errors.Wrap(errors.ErrEncryptionFailed, err.Error())
	}

	keyBytes, err := key.Bytes()
	if err != nil {
		return nil, err
	}
	defer keyringDomain.Zero(keyBytes)

	block, err := aes.NewCipher(keyBytes)
	if err != nil {
		return nil, errors.Wrap(errors.ErrEncryptionFailed, err.Error())
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(errors.ErrEncryptionFailed, "failed to generate iv")
	}

	padded := pkcs7Pad(plaintext)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return &fieldcryptDomain.Envelope{
		Ciphertext:  base64.StdEncoding.EncodeToString(ciphertext),
		IV:          base64.StdEncoding.EncodeToString(iv),
		IsEncrypted: true,
		EncryptedAt: time.Now().UTC(),
		Version:     fieldcryptDomain.EnvelopeVersion,
	}, nil
}

// Decrypt recovers the original value from an envelope.
//
// Failure modes, all wrapping ErrDecryptionFailed:
//   - the envelope is nil, unmarked, or structurally malformed
//   - padding validation fails, which with CBC means the wrong key was used
//   - the recovered plaintext is not valid UTF-8 (corrupted ciphertext)
//
// On success the plaintext is offered to the JSON parser; if parsing fails the
// raw string is returned, so values that were encrypted as plain strings come
// back as plain strings.
func (c *Cipher) Decrypt(
	ctx context.Context,
	env *fieldcryptDomain.Envelope,
	key keyringDomain.DerivedKey,
) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if env == nil || !env.IsEncrypted {
		return nil, fieldcryptDomain.ErrMalformedEnvelope
	}
	if key.IsZero() {
		return nil, fieldcryptDomain.ErrMissingKey
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}

	ciphertext, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return nil, fieldcryptDomain.ErrMalformedEnvelope
	}
	iv, err := base64.StdEncoding.DecodeString(env.IV)
	if err != nil {
		return nil, fieldcryptDomain.ErrMalformedEnvelope
	}
	if len(iv) != aes.BlockSize || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fieldcryptDomain.ErrMalformedEnvelope
	}

	keyBytes, err := key.Bytes()
	if err != nil {
		return nil, err
	}
	defer keyringDomain.Zero(keyBytes)

	block, err := aes.NewCipher(keyBytes)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDecryptionFailed, err.Error())
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := pkcs7Unpad(padded)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(plaintext) {
		return nil, fieldcryptDomain.ErrCorruptedData
	}

	return deserialize(plaintext), nil
}

// CanDecrypt reports whether the envelope decrypts under the key. Never errors.
func (c *Cipher) CanDecrypt(
	ctx context.Context,
	env *fieldcryptDomain.Envelope,
	key keyringDomain.DerivedKey,
) bool {
	_, err := c.Decrypt(ctx, env, key)
	return err == nil
}

// serialize converts a value to the plaintext bytes that get encrypted.
func serialize(value any) ([]byte, error) {
	if s, ok := value.(string); ok {
		return []byte(s), nil
	}
	return json.Marshal(value)
}

// deserialize reverses serialize: JSON text parses back into its structured
// form, anything else is returned as the raw string.
func deserialize(plaintext []byte) any {
	var parsed any
	if err := json.Unmarshal(plaintext, &parsed); err != nil {
		return string(plaintext)
	}
	return parsed
}
