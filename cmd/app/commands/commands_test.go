package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casevault/fieldcrypt"
	"github.com/casevault/fieldcrypt/internal/config"
	"github.com/casevault/fieldcrypt/internal/metrics"
)

func testClient() *fieldcrypt.Client {
	return fieldcrypt.New(fieldcrypt.Options{
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

func TestRunDeriveKey(t *testing.T) {
	client := testClient()

	t.Run("prints a fingerprint by default", func(t *testing.T) {
		var out bytes.Buffer
		err := RunDeriveKey(context.Background(), client, "u1", "a@b.com", false, &out)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out.String(), "FINGERPRINT="))
		assert.NotContains(t, out.String(), "KEY=")
	})

	t.Run("fingerprint is stable", func(t *testing.T) {
		var first, second bytes.Buffer
		require.NoError(t, RunDeriveKey(context.Background(), client, "u1", "a@b.com", false, &first))
		require.NoError(t, RunDeriveKey(context.Background(), client, "u1", "a@b.com", false, &second))
		assert.Equal(t, first.String(), second.String())
	})

	t.Run("reveal prints raw key material", func(t *testing.T) {
		var out bytes.Buffer
		err := RunDeriveKey(context.Background(), client, "u1", "a@b.com", true, &out)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out.String(), "KEY="))
	})

	t.Run("missing identity", func(t *testing.T) {
		var out bytes.Buffer
		err := RunDeriveKey(context.Background(), client, "", "", false, &out)
		assert.Error(t, err)
	})
}

func TestRunEncryptAndDecryptFields(t *testing.T) {
	client := testClient()
	ctx := context.Background()

	in := strings.NewReader(`{"caseNumber":"2024-CF-1","statute":"18 U.S.C. §1956","vaspName":"Example Exchange"}`)
	var encryptedOut bytes.Buffer
	err := RunEncryptFields(ctx, client, "u1", "a@b.com", []string{"caseNumber", "statute"}, in, &encryptedOut)
	require.NoError(t, err)

	var encrypted map[string]any
	require.NoError(t, json.Unmarshal(encryptedOut.Bytes(), &encrypted))

	// Listed fields are envelopes, the rest passes through.
	caseField, ok := encrypted["caseNumber"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, caseField["isEncrypted"])
	assert.Equal(t, "Example Exchange", encrypted["vaspName"])

	// Feed the encrypted output back through decrypt-fields.
	var decryptedOut bytes.Buffer
	err = RunDecryptFields(ctx, client, "u1", "a@b.com", []string{"caseNumber", "statute"},
		bytes.NewReader(encryptedOut.Bytes()), &decryptedOut)
	require.NoError(t, err)

	var decrypted map[string]any
	require.NoError(t, json.Unmarshal(decryptedOut.Bytes(), &decrypted))
	assert.Equal(t, "2024-CF-1", decrypted["caseNumber"])
	assert.Equal(t, "18 U.S.C. §1956", decrypted["statute"])
	assert.Equal(t, "Example Exchange", decrypted["vaspName"])
}

func TestRunEncryptFieldsErrors(t *testing.T) {
	client := testClient()
	ctx := context.Background()

	t.Run("no fields", func(t *testing.T) {
		err := RunEncryptFields(ctx, client, "u1", "a@b.com", nil, strings.NewReader("{}"), io.Discard)
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		err := RunEncryptFields(ctx, client, "u1", "a@b.com", []string{"a"}, strings.NewReader("not json"), io.Discard)
		assert.Error(t, err)
	})

	t.Run("missing identity", func(t *testing.T) {
		err := RunEncryptFields(ctx, client, "", "", []string{"a"}, strings.NewReader(`{"a":"x"}`), io.Discard)
		assert.Error(t, err)
	})
}

func TestRunDecryptFieldsWrongKeyDegrades(t *testing.T) {
	client := testClient()
	ctx := context.Background()

	in := strings.NewReader(`{"caseNumber":"2024-CF-1"}`)
	var encryptedOut bytes.Buffer
	require.NoError(t, RunEncryptFields(ctx, client, "u1", "a@b.com", []string{"caseNumber"}, in, &encryptedOut))

	// A different identity cannot read the field; it degrades to null.
	var out bytes.Buffer
	err := RunDecryptFields(ctx, client, "u2", "c@d.com", []string{"caseNumber"},
		bytes.NewReader(encryptedOut.Bytes()), &out)
	require.NoError(t, err)

	var decrypted map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decrypted))
	assert.Nil(t, decrypted["caseNumber"])
}

func TestRunInspect(t *testing.T) {
	client := testClient()
	ctx := context.Background()

	in := strings.NewReader(`{"caseNumber":"2024-CF-1","vaspName":"Example Exchange"}`)
	var encryptedOut bytes.Buffer
	require.NoError(t, RunEncryptFields(ctx, client, "u1", "a@b.com", []string{"caseNumber"}, in, &encryptedOut))

	var out bytes.Buffer
	require.NoError(t, RunInspect(bytes.NewReader(encryptedOut.Bytes()), &out))

	assert.Contains(t, out.String(), "caseNumber: encrypted (version 1.0")
	assert.Contains(t, out.String(), "vaspName: plaintext")
}
