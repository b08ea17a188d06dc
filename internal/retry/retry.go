// Package retry provides exponential-backoff retry for cipher operations,
// distinguishing permanent failures (bad key, corrupt data, caller bugs)
// from transient ones.
package retry

import (
	"context"
	"math/rand"
	"strings"
	"time"

	apperrors "github.com/casevault/fieldcrypt/internal/errors"
)

// Config controls the retry budget and backoff shape for one operation class.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the backoff delay before the first retry; each subsequent
	// retry doubles it.
	BaseDelay time.Duration
}

// EncryptDefaults returns the retry budget for encrypt operations.
// Encryption failures are most often permanent (missing key), so the budget
// is smaller and the backoff shorter than for decryption.
func EncryptDefaults() Config {
	return Config{MaxAttempts: 2, BaseDelay: 500 * time.Millisecond}
}

// DecryptDefaults returns the retry budget for decrypt operations.
// Decryption is more likely to hit transient races, such as a key not yet
// cached when a list view renders.
func DecryptDefaults() Config {
	return Config{MaxAttempts: 3, BaseDelay: time.Second}
}

// Do runs op, retrying transient failures with exponential backoff plus small
// random jitter (at most 10% of the computed delay, so simultaneous retriers
// do not stampede in lockstep). Permanent errors are returned immediately
// without retrying; after the attempt budget is exhausted the last error is
// returned. The backoff sleep respects ctx cancellation.
func Do[T any](ctx context.Context, cfg Config, op func(context.Context) (T, error)) (T, error) {
	var zero T

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, backoffDelay(cfg.BaseDelay, attempt-1)); err != nil {
				return zero, err
			}
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if Permanent(err) {
			return zero, err
		}
		lastErr = err
	}

	return zero, lastErr
}

// Permanent reports whether err should never be retried: invalid input,
// encryption and decryption failures, and context cancellation. Errors that
// crossed a serialization boundary are recognized by the "invalid key" and
// "corrupted data" markers in their message.
func Permanent(err error) bool {
	if err == nil {
		return false
	}
	if apperrors.Is(err, apperrors.ErrInvalidInput) ||
		apperrors.Is(err, apperrors.ErrEncryptionFailed) ||
		apperrors.Is(err, apperrors.ErrDecryptionFailed) ||
		apperrors.Is(err, context.Canceled) ||
		apperrors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid key") || strings.Contains(msg, "corrupted data")
}

// backoffDelay computes BaseDelay * 2^retry plus up to 10% random jitter.
func backoffDelay(base time.Duration, retry int) time.Duration {
	if base <= 0 {
		return 0
	}

	delay := base << retry
	maxJitter := delay / 10
	if maxJitter > 0 {
		delay += time.Duration(rand.Int63n(int64(maxJitter) + 1))
	}
	return delay
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
