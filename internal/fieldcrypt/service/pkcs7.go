package service

import (
	"crypto/aes"

	fieldcryptDomain "github.com/casevault/fieldcrypt/internal/fieldcrypt/domain"
)

// pkcs7Pad appends PKCS#7 padding so the plaintext length is a multiple of the
// AES block size. Always adds at least one byte, so padding is unambiguous.
func pkcs7Pad(plaintext []byte) []byte {
	padLen := aes.BlockSize - len(plaintext)%aes.BlockSize
	padded := make([]byte, len(plaintext)+padLen)
	copy(padded, plaintext)
	for i := len(plaintext); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// pkcs7Unpad validates and strips PKCS#7 padding.
//
// CBC mode is not authenticated, so a wrong key almost always surfaces here as
// garbage padding. That is why padding failures map to ErrInvalidKey rather
// than a generic decode error.
func pkcs7Unpad(padded []byte) ([]byte, error) {
	if len(padded) == 0 || len(padded)%aes.BlockSize != 0 {
		return nil, fieldcryptDomain.ErrInvalidKey
	}

	padLen := int(padded[len(padded)-1])
	if padLen == 0 || padLen > aes.BlockSize || padLen > len(padded) {
		return nil, fieldcryptDomain.ErrInvalidKey
	}
	for _, b := range padded[len(padded)-padLen:] {
		if int(b) != padLen {
			return nil, fieldcryptDomain.ErrInvalidKey
		}
	}

	return padded[:len(padded)-padLen], nil
}
