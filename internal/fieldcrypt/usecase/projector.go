package usecase

import (
	"context"
	"log/slog"

	"github.com/casevault/fieldcrypt/internal/errors"
	fieldcryptDomain "github.com/casevault/fieldcrypt/internal/fieldcrypt/domain"
	keyringDomain "github.com/casevault/fieldcrypt/internal/keyring/domain"
	"github.com/casevault/fieldcrypt/internal/metrics"
)

// projector implements FieldProjector. Stateless: a pure transformation
// given a key, plus observability side channels.
type projector struct {
	cipher  FieldCipher
	logger  *slog.Logger
	metrics metrics.CryptoMetrics
}

// NewFieldProjector creates a FieldProjector over the given cipher.
func NewFieldProjector(cipher FieldCipher, logger *slog.Logger, m metrics.CryptoMetrics) FieldProjector {
	return &projector{
		cipher:  cipher,
		logger:  logger,
		metrics: m,
	}
}

// EncryptFields encrypts every listed field that is present and non-nil.
//
// Fields not listed, absent, or nil pass through unchanged, and fields that
// already hold an envelope are left alone, so a record is never left with
// partially encrypted state in one field. Unlike decryption, an encryption
// failure aborts the whole operation: it signals a caller bug (missing key),
// and persisting a half-encrypted record would leak the remaining plaintext.
func (p *projector) EncryptFields(
	ctx context.Context,
	record map[string]any,
	fields []string,
	key keyringDomain.DerivedKey,
) (map[string]any, error) {
	if record == nil {
		return nil, nil
	}

	out := copyRecord(record)
	for _, field := range fields {
		value, ok := out[field]
		if !ok || value == nil {
			continue
		}
		if _, already := fieldcryptDomain.FromValue(value); already {
			continue
		}

		env, err := p.cipher.Encrypt(ctx, value, key)
		if err != nil {
			return nil, errors.Wrap(err, "field "+field)
		}
		out[field] = env
	}

	return out, nil
}

// DecryptFields decrypts every listed field that holds an envelope.
//
// A per-field failure sets that field to nil, records a metric, and logs a
// structured warning instead of failing the record. This is a deliberate
// availability-over-completeness policy: one corrupt field must not block
// access to the rest of the record. Operators detect systemic key-mismatch
// through the failure counter, not through surfaced errors.
func (p *projector) DecryptFields(
	ctx context.Context,
	record map[string]any,
	fields []string,
	key keyringDomain.DerivedKey,
) (map[string]any, error) {
	if record == nil {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := copyRecord(record)
	for _, field := range fields {
		value, ok := out[field]
		if !ok {
			continue
		}
		env, isEnvelope := fieldcryptDomain.FromValue(value)
		if !isEnvelope {
			continue
		}

		decrypted, err := p.cipher.Decrypt(ctx, env, key)
		if err != nil {
			out[field] = nil
			p.metrics.RecordFieldFailure(ctx, field)
			p.logger.Warn("field decryption failed",
				slog.String("field", field),
				slog.String("error", err.Error()),
			)
			continue
		}
		out[field] = decrypted
	}

	return out, nil
}

// copyRecord makes the shallow copy both projections hand back.
func copyRecord(record map[string]any) map[string]any {
	out := make(map[string]any, len(record))
	for k, v := range record {
		out[k] = v
	}
	return out
}
