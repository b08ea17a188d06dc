package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casevault/fieldcrypt/internal/errors"
)

func validEnvelope() Envelope {
	return Envelope{
		Ciphertext:  "Y2lwaGVydGV4dA==",
		IV:          "aXZpdml2aXZpdml2aXY=",
		IsEncrypted: true,
		EncryptedAt: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
		Version:     EnvelopeVersion,
	}
}

func TestEnvelopeValidate(t *testing.T) {
	t.Run("valid envelope", func(t *testing.T) {
		assert.NoError(t, validEnvelope().Validate())
	})

	t.Run("missing ciphertext", func(t *testing.T) {
		env := validEnvelope()
		env.Ciphertext = ""
		err := env.Validate()
		assert.True(t, errors.Is(err, ErrMalformedEnvelope))
	})

	t.Run("missing iv", func(t *testing.T) {
		env := validEnvelope()
		env.IV = ""
		assert.Error(t, env.Validate())
	})

	t.Run("ciphertext not base64", func(t *testing.T) {
		env := validEnvelope()
		env.Ciphertext = "%%%"
		assert.Error(t, env.Validate())
	})
}

func TestFromValue(t *testing.T) {
	t.Run("typed envelope pointer", func(t *testing.T) {
		env := validEnvelope()
		got, ok := FromValue(&env)
		require.True(t, ok)
		assert.Equal(t, env.Ciphertext, got.Ciphertext)
	})

	t.Run("typed envelope value", func(t *testing.T) {
		_, ok := FromValue(validEnvelope())
		assert.True(t, ok)
	})

	t.Run("nil pointer", func(t *testing.T) {
		var env *Envelope
		_, ok := FromValue(env)
		assert.False(t, ok)
	})

	t.Run("json round-trip map form", func(t *testing.T) {
		raw, err := json.Marshal(validEnvelope())
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(raw, &decoded))

		got, ok := FromValue(decoded)
		require.True(t, ok)
		assert.Equal(t, "Y2lwaGVydGV4dA==", got.Ciphertext)
		assert.Equal(t, "aXZpdml2aXZpdml2aXY=", got.IV)
		assert.Equal(t, EnvelopeVersion, got.Version)
		assert.True(t, got.EncryptedAt.Equal(time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)))
	})

	t.Run("plaintext values are not envelopes", func(t *testing.T) {
		for _, v := range []any{"2024-CF-1", 42, nil, map[string]any{"isEncrypted": false}, []any{1}} {
			_, ok := FromValue(v)
			assert.False(t, ok)
		}
	})
}
