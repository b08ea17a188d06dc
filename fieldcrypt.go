// Package fieldcrypt is the client-side, zero-knowledge field encryption core
// for case-management applications handling VASP compliance data.
//
// A symmetric key is derived deterministically from the authenticated user's
// identity pair and kept only in the process keyring; designated sensitive
// fields are encrypted before a record ever leaves the client and decrypted
// on read, so the server never sees their plaintext.
package fieldcrypt

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/casevault/fieldcrypt/internal/config"
	apperrors "github.com/casevault/fieldcrypt/internal/errors"
	fieldcryptDomain "github.com/casevault/fieldcrypt/internal/fieldcrypt/domain"
	fieldcryptService "github.com/casevault/fieldcrypt/internal/fieldcrypt/service"
	fieldcryptUseCase "github.com/casevault/fieldcrypt/internal/fieldcrypt/usecase"
	keyringDomain "github.com/casevault/fieldcrypt/internal/keyring/domain"
	keyringService "github.com/casevault/fieldcrypt/internal/keyring/service"
	"github.com/casevault/fieldcrypt/internal/metrics"
	"github.com/casevault/fieldcrypt/internal/retry"
)

// Envelope is the structured output of an encryption call.
type Envelope = fieldcryptDomain.Envelope

// DerivedKey is a string-encoded symmetric key derived from a user identity pair.
type DerivedKey = keyringDomain.DerivedKey

// LazyRecord defers field decryption until first access.
type LazyRecord = fieldcryptUseCase.LazyRecord

// Sentinel errors surfaced to consumers. Match with errors.Is.
var (
	ErrInvalidInput     = apperrors.ErrInvalidInput
	ErrEncryptionFailed = apperrors.ErrEncryptionFailed
	ErrDecryptionFailed = apperrors.ErrDecryptionFailed
)

// Options configures a Client. Zero values fall back to environment-driven
// configuration, a JSON logger, and metrics as configured.
type Options struct {
	// Config overrides the environment-driven configuration.
	Config *config.Config
	// Logger overrides the default JSON logger.
	Logger *slog.Logger
	// Metrics overrides the metrics sink. When nil, a Prometheus-backed sink
	// is built if metrics are enabled, otherwise a no-op sink.
	Metrics metrics.CryptoMetrics
}

// Client wires the key deriver, keyring, field cipher, and projector into the
// consumer-facing contract.
//
// A Client is intended to be the single process-wide instance so derived keys
// are shared across the application; tests construct isolated instances. Safe
// for concurrent use.
type Client struct {
	cfg             *config.Config
	logger          *slog.Logger
	metrics         metrics.CryptoMetrics
	metricsProvider *metrics.Provider
	keys            *keyringService.Provider
	cipher          *fieldcryptService.Cipher
	projector       fieldcryptUseCase.FieldProjector
	encryptRetry    retry.Config
	decryptRetry    retry.Config
}

// New creates a Client from the given options.
func New(opts Options) *Client {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Load()
	}

	logger := opts.Logger
	if logger == nil {
		logger = newLogger(cfg.LogLevel)
	}

	client := &Client{
		cfg:     cfg,
		logger:  logger,
		metrics: opts.Metrics,
	}

	if client.metrics == nil {
		client.metrics = metrics.NewNoopMetrics()
		if cfg.MetricsEnabled {
			if provider, err := metrics.NewProvider(cfg.MetricsNamespace); err == nil {
				if m, err := metrics.NewCryptoMetrics(provider.MeterProvider(), cfg.MetricsNamespace); err == nil {
					client.metricsProvider = provider
					client.metrics = m
				}
			}
		}
	}

	client.keys = keyringService.NewProvider(
		keyringService.NewCache(cfg.KeyCacheCapacity),
		keyringService.NewPBKDF2Deriver(),
		logger,
	)
	client.cipher = fieldcryptService.NewCipher()
	client.projector = fieldcryptUseCase.NewFieldProjectorWithMetrics(
		fieldcryptUseCase.NewFieldProjector(client.cipher, logger, client.metrics),
		client.metrics,
	)
	client.encryptRetry = retry.Config{MaxAttempts: cfg.EncryptMaxAttempts, BaseDelay: cfg.EncryptBaseDelay}
	client.decryptRetry = retry.Config{MaxAttempts: cfg.DecryptMaxAttempts, BaseDelay: cfg.DecryptBaseDelay}

	return client
}

// DeriveKey returns the derived key for the identity pair, deriving and
// caching it on first use. Concurrent calls for the same pair share one
// derivation.
func (c *Client) DeriveKey(ctx context.Context, userID, email string) (DerivedKey, error) {
	key, err := c.keys.ObtainKey(ctx, userID, email)

	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordOperation(ctx, "derive_key", status)

	return key, err
}

// Ready reports whether a key for the identity pair is already cached, i.e.
// whether encryption for this user can proceed without a derivation pause.
func (c *Client) Ready(userID, email string) bool {
	return c.keys.Ready(userID, email)
}

// ClearKeys empties the keyring. Must be called on logout so a key does not
// outlive its session.
func (c *Client) ClearKeys() {
	c.keys.Clear()
	c.logger.Info("keyring cleared")
}

// Encrypt encrypts a JSON-serializable value into an envelope, retrying
// transient failures per the encrypt retry budget.
func (c *Client) Encrypt(ctx context.Context, value any, key DerivedKey) (*Envelope, error) {
	return retry.Do(ctx, c.encryptRetry, func(ctx context.Context) (*Envelope, error) {
		return c.cipher.Encrypt(ctx, value, key)
	})
}

// Decrypt recovers the original value from an envelope, retrying transient
// failures per the decrypt retry budget. Wrong-key and corrupt-data failures
// are permanent and surface immediately.
func (c *Client) Decrypt(ctx context.Context, env *Envelope, key DerivedKey) (any, error) {
	return retry.Do(ctx, c.decryptRetry, func(ctx context.Context) (any, error) {
		return c.cipher.Decrypt(ctx, env, key)
	})
}

// CanDecrypt reports whether the envelope decrypts under the key. Never errors.
func (c *Client) CanDecrypt(ctx context.Context, env *Envelope, key DerivedKey) bool {
	return c.cipher.CanDecrypt(ctx, env, key)
}

// EncryptFields returns a shallow copy of record with the listed fields encrypted.
func (c *Client) EncryptFields(
	ctx context.Context,
	record map[string]any,
	fields []string,
	key DerivedKey,
) (map[string]any, error) {
	return retry.Do(ctx, c.encryptRetry, func(ctx context.Context) (map[string]any, error) {
		return c.projector.EncryptFields(ctx, record, fields, key)
	})
}

// DecryptFields returns a shallow copy of record with the listed envelope
// fields decrypted; per-field failures degrade to nil.
func (c *Client) DecryptFields(
	ctx context.Context,
	record map[string]any,
	fields []string,
	key DerivedKey,
) (map[string]any, error) {
	return retry.Do(ctx, c.decryptRetry, func(ctx context.Context) (map[string]any, error) {
		return c.projector.DecryptFields(ctx, record, fields, key)
	})
}

// Lazy wraps a record for on-first-access decryption of the listed fields
// under the given key.
func (c *Client) Lazy(record map[string]any, fields []string, key DerivedKey) *LazyRecord {
	return fieldcryptUseCase.NewLazyRecord(record, fields,
		func(ctx context.Context, env *Envelope) (any, error) {
			return c.cipher.Decrypt(ctx, env, key)
		},
	)
}

// MetricsHandler returns the Prometheus exposition handler, or nil when the
// client was built without its own metrics provider.
func (c *Client) MetricsHandler() http.Handler {
	if c.metricsProvider == nil {
		return nil
	}
	return c.metricsProvider.Handler()
}

// Close clears the keyring and flushes the metrics provider if the client owns one.
func (c *Client) Close(ctx context.Context) error {
	c.keys.Clear()
	if c.metricsProvider != nil {
		return c.metricsProvider.Shutdown(ctx)
	}
	return nil
}

// newLogger creates a structured logger based on the log level.
func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}
