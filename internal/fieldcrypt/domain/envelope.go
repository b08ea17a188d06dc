// Package domain defines the encrypted envelope format and field cipher errors.
package domain

import (
	"time"

	validation "github.com/jellydator/validation"

	appvalidation "github.com/casevault/fieldcrypt/internal/validation"
)

// EnvelopeVersion is the current envelope format version. The version field
// allows the envelope format to evolve without breaking previously encrypted data.
const EnvelopeVersion = "1.0"

// Envelope is the structured output of a field encryption call.
//
// Ciphertext and IV are base64-encoded; IsEncrypted marks a value as an
// envelope so projections can tell encrypted fields from plaintext ones.
// An envelope is immutable once created: decrypting never mutates it.
//
// Fields:
//   - Ciphertext: base64-encoded AES-256-CBC ciphertext
//   - IV: base64-encoded 16-byte initialization vector, random per encryption
//   - IsEncrypted: always true for a well-formed envelope
//   - EncryptedAt: when the envelope was produced
//   - Version: envelope format version
type Envelope struct {
	Ciphertext  string    `json:"ciphertext"`
	IV          string    `json:"iv"`
	IsEncrypted bool      `json:"isEncrypted"`
	EncryptedAt time.Time `json:"encryptedAt"`
	Version     string    `json:"version"`
}

// Validate checks the envelope is structurally sound: ciphertext and IV are
// both present and base64-decodable. Returns an error wrapping
// ErrMalformedEnvelope when validation fails.
func (e Envelope) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(&e.Ciphertext, validation.Required, appvalidation.Base64),
		validation.Field(&e.IV, validation.Required, appvalidation.Base64),
	)
	if err != nil {
		return wrapMalformed(err)
	}
	return nil
}

// FromValue recognizes an envelope in the shapes a record field can carry:
// a typed *Envelope, an Envelope value, or the map[string]any form produced
// by decoding a server JSON response. Returns false for anything else,
// including plaintext values that were never encrypted.
func FromValue(value any) (*Envelope, bool) {
	switch v := value.(type) {
	case *Envelope:
		if v == nil {
			return nil, false
		}
		return v, true
	case Envelope:
		return &v, true
	case map[string]any:
		encrypted, ok := v["isEncrypted"].(bool)
		if !ok || !encrypted {
			return nil, false
		}
		env := &Envelope{IsEncrypted: true}
		env.Ciphertext, _ = v["ciphertext"].(string)
		env.IV, _ = v["iv"].(string)
		env.Version, _ = v["version"].(string)
		if at, ok := v["encryptedAt"].(string); ok {
			if parsed, err := time.Parse(time.RFC3339, at); err == nil {
				env.EncryptedAt = parsed
			}
		}
		return env, true
	default:
		return nil, false
	}
}
