package fieldcrypt

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casevault/fieldcrypt/internal/config"
	fieldcryptDomain "github.com/casevault/fieldcrypt/internal/fieldcrypt/domain"
	"github.com/casevault/fieldcrypt/internal/metrics"
)

func testClient() *Client {
	return New(Options{
		Config: &config.Config{
			LogLevel:           "error",
			MetricsEnabled:     false,
			KeyCacheCapacity:   10,
			EncryptMaxAttempts: 2,
			EncryptBaseDelay:   time.Millisecond,
			DecryptMaxAttempts: 3,
			DecryptBaseDelay:   time.Millisecond,
		},
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics: metrics.NewNoopMetrics(),
	})
}

func TestClientEndToEnd(t *testing.T) {
	client := testClient()
	ctx := context.Background()

	// User u1 derives a session key.
	assert.False(t, client.Ready("u1", "a@b.com"))
	key, err := client.DeriveKey(ctx, "u1", "a@b.com")
	require.NoError(t, err)
	assert.True(t, client.Ready("u1", "a@b.com"))

	// Encrypt the sensitive fields of a case record.
	record := map[string]any{
		"caseNumber": "2024-CF-1",
		"statute":    "18 U.S.C. §1956",
	}
	encrypted, err := client.EncryptFields(ctx, record, []string{"caseNumber", "statute"}, key)
	require.NoError(t, err)

	env, isEnvelope := fieldcryptDomain.FromValue(encrypted["caseNumber"])
	require.True(t, isEnvelope)
	assert.NotEqual(t, "2024-CF-1", encrypted["caseNumber"])
	assert.True(t, client.CanDecrypt(ctx, env, key))

	// Decrypting with the owner's key restores both fields exactly.
	decrypted, err := client.DecryptFields(ctx, encrypted, []string{"caseNumber", "statute"}, key)
	require.NoError(t, err)
	assert.Equal(t, record, decrypted)

	// A different user's key cannot read the envelope.
	otherKey, err := client.DeriveKey(ctx, "u2", "c@d.com")
	require.NoError(t, err)
	_, err = client.Decrypt(ctx, env, otherKey)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
	assert.False(t, client.CanDecrypt(ctx, env, otherKey))
}

func TestClientEncryptDecrypt(t *testing.T) {
	client := testClient()
	ctx := context.Background()

	key, err := client.DeriveKey(ctx, "u1", "a@b.com")
	require.NoError(t, err)

	env, err := client.Encrypt(ctx, "hello", key)
	require.NoError(t, err)

	value, err := client.Decrypt(ctx, env, key)
	require.NoError(t, err)
	assert.Equal(t, "hello", value)
}

func TestClientDeriveKeyDeterminism(t *testing.T) {
	client := testClient()
	ctx := context.Background()

	first, err := client.DeriveKey(ctx, "u1", "a@b.com")
	require.NoError(t, err)

	// A fresh client with an empty keyring derives the identical key.
	second, err := testClient().DeriveKey(ctx, "u1", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestClientLazy(t *testing.T) {
	client := testClient()
	ctx := context.Background()

	key, err := client.DeriveKey(ctx, "u1", "a@b.com")
	require.NoError(t, err)

	encrypted, err := client.EncryptFields(ctx, map[string]any{
		"vaspName":   "Example Exchange",
		"caseNumber": "2024-CF-1",
	}, []string{"caseNumber"}, key)
	require.NoError(t, err)

	lazy := client.Lazy(encrypted, []string{"caseNumber"}, key)
	assert.Equal(t, "Example Exchange", lazy.Get(ctx, "vaspName"))
	assert.Equal(t, "2024-CF-1", lazy.Get(ctx, "caseNumber"))
}

func TestClientClearKeys(t *testing.T) {
	client := testClient()
	ctx := context.Background()

	_, err := client.DeriveKey(ctx, "u1", "a@b.com")
	require.NoError(t, err)
	require.True(t, client.Ready("u1", "a@b.com"))

	// Logout: no key survives the session.
	client.ClearKeys()
	assert.False(t, client.Ready("u1", "a@b.com"))
}

func TestClientWithOwnMetricsProvider(t *testing.T) {
	client := New(Options{
		Config: &config.Config{
			LogLevel:           "error",
			MetricsEnabled:     true,
			MetricsNamespace:   "fieldcrypt_test",
			KeyCacheCapacity:   10,
			EncryptMaxAttempts: 2,
			EncryptBaseDelay:   time.Millisecond,
			DecryptMaxAttempts: 3,
			DecryptBaseDelay:   time.Millisecond,
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	defer func() {
		assert.NoError(t, client.Close(context.Background()))
	}()

	assert.NotNil(t, client.MetricsHandler())

	key, err := client.DeriveKey(context.Background(), "u1", "a@b.com")
	require.NoError(t, err)
	assert.False(t, key.IsZero())
}
