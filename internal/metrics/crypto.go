package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CryptoMetrics defines the interface for recording cryptographic operation metrics.
//
// Besides operation counts and durations, implementations expose a dedicated
// per-field decryption-failure counter. Field-level failures are deliberately
// swallowed by the projector (availability over completeness), so this counter
// is the only signal operators have to detect systemic key-mismatch issues.
type CryptoMetrics interface {
	// RecordOperation records a cryptographic operation with its status.
	// Operation examples: "derive_key", "encrypt", "decrypt", "encrypt_fields", "decrypt_fields"
	// Status examples: "success", "error"
	RecordOperation(ctx context.Context, operation, status string)

	// RecordDuration records the duration of a cryptographic operation with its status.
	// Duration is recorded in seconds as a histogram for percentile calculations.
	RecordDuration(ctx context.Context, operation string, duration time.Duration, status string)

	// RecordFieldFailure records a swallowed per-field decryption failure.
	RecordFieldFailure(ctx context.Context, field string)
}

// cryptoMetrics implements CryptoMetrics using OpenTelemetry metrics.
type cryptoMetrics struct {
	operationCounter    metric.Int64Counter
	durationHisto       metric.Float64Histogram
	fieldFailureCounter metric.Int64Counter
}

// NewCryptoMetrics creates a new CryptoMetrics implementation using the provided meter provider.
// The namespace parameter is used as a prefix for all metric names (e.g., "fieldcrypt").
// Returns error if meters cannot be initialized.
func NewCryptoMetrics(meterProvider metric.MeterProvider, namespace string) (CryptoMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of cryptographic operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of cryptographic operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	fieldFailureCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_field_decrypt_failures_total", namespace),
		metric.WithDescription("Total number of per-field decryption failures degraded to null"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create field failure counter: %w", err)
	}

	return &cryptoMetrics{
		operationCounter:    operationCounter,
		durationHisto:       durationHisto,
		fieldFailureCounter: fieldFailureCounter,
	}, nil
}

// RecordOperation increments the operation counter with operation and status labels.
func (c *cryptoMetrics) RecordOperation(ctx context.Context, operation, status string) {
	c.operationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// RecordDuration records the operation duration in seconds with operation and status labels.
func (c *cryptoMetrics) RecordDuration(
	ctx context.Context,
	operation string,
	duration time.Duration,
	status string,
) {
	c.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// RecordFieldFailure increments the field failure counter with a field label.
func (c *cryptoMetrics) RecordFieldFailure(ctx context.Context, field string) {
	c.fieldFailureCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("field", field),
		),
	)
}

// noopMetrics discards all recordings. Used when metrics are disabled or when a
// library consumer has not configured a provider.
type noopMetrics struct{}

// NewNoopMetrics creates a CryptoMetrics implementation that records nothing.
func NewNoopMetrics() CryptoMetrics {
	return &noopMetrics{}
}

func (n *noopMetrics) RecordOperation(_ context.Context, _, _ string) {}

func (n *noopMetrics) RecordDuration(_ context.Context, _ string, _ time.Duration, _ string) {}

func (n *noopMetrics) RecordFieldFailure(_ context.Context, _ string) {}
