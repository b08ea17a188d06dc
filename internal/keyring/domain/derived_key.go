package domain

import (
	"encoding/hex"
)

// DerivedKeySize is the raw length of a derived symmetric key in bytes (AES-256).
const DerivedKeySize = 32

// DerivedKey is a string-encoded (hex) 32-byte symmetric key derived from a
// user's identity pair.
//
// A DerivedKey lives only in the process keyring for the duration of a session.
// It is never transmitted to any server and is invalidated by clearing the
// keyring on logout.
type DerivedKey string

// Bytes decodes the key into raw key material suitable for cipher construction.
// Returns ErrInvalidKeyEncoding if the key is not hex or not 32 bytes.
func (k DerivedKey) Bytes() ([]byte, error) {
	raw, err := hex.DecodeString(string(k))
	if err != nil {
		return nil, ErrInvalidKeyEncoding
	}
	if len(raw) != DerivedKeySize {
		return nil, ErrInvalidKeyEncoding
	}
	return raw, nil
}

// IsZero reports whether the key is empty.
func (k DerivedKey) IsZero() bool {
	return k == ""
}
