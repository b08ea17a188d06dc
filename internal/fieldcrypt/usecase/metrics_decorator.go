package usecase

import (
	"context"
	"time"

	keyringDomain "github.com/casevault/fieldcrypt/internal/keyring/domain"
	"github.com/casevault/fieldcrypt/internal/metrics"
)

// fieldProjectorWithMetrics decorates FieldProjector with metrics instrumentation.
type fieldProjectorWithMetrics struct {
	next    FieldProjector
	metrics metrics.CryptoMetrics
}

// NewFieldProjectorWithMetrics wraps a FieldProjector with metrics recording.
func NewFieldProjectorWithMetrics(projector FieldProjector, m metrics.CryptoMetrics) FieldProjector {
	return &fieldProjectorWithMetrics{
		next:    projector,
		metrics: m,
	}
}

// EncryptFields records metrics for field encryption operations.
func (f *fieldProjectorWithMetrics) EncryptFields(
	ctx context.Context,
	record map[string]any,
	fields []string,
	key keyringDomain.DerivedKey,
) (map[string]any, error) {
	start := time.Now()
	out, err := f.next.EncryptFields(ctx, record, fields, key)

	status := "success"
	if err != nil {
		status = "error"
	}

	f.metrics.RecordOperation(ctx, "encrypt_fields", status)
	f.metrics.RecordDuration(ctx, "encrypt_fields", time.Since(start), status)

	return out, err
}

// DecryptFields records metrics for field decryption operations.
func (f *fieldProjectorWithMetrics) DecryptFields(
	ctx context.Context,
	record map[string]any,
	fields []string,
	key keyringDomain.DerivedKey,
) (map[string]any, error) {
	start := time.Now()
	out, err := f.next.DecryptFields(ctx, record, fields, key)

	status := "success"
	if err != nil {
		status = "error"
	}

	f.metrics.RecordOperation(ctx, "decrypt_fields", status)
	f.metrics.RecordDuration(ctx, "decrypt_fields", time.Since(start), status)

	return out, err
}
