package usecase

import (
	"context"
	"sync"

	fieldcryptDomain "github.com/casevault/fieldcrypt/internal/fieldcrypt/domain"
)

// DecryptFunc decrypts a single envelope. The key is bound by the caller.
type DecryptFunc func(ctx context.Context, env *fieldcryptDomain.Envelope) (any, error)

// LazyRecord wraps a fetched record so sensitive fields are decrypted only on
// first access, with per-instance memoization of the result.
//
// List views with many records and several encrypted fields each rarely render
// more than one or two fields per row; decrypting everything up front is
// wasted work. Instead of transparent property interception, consumers call
// Get with the field name.
//
// A failed decryption memoizes nil for the field, consistent with the
// projector's degradation policy, and also prevents render loops from
// re-attempting a decryption that cannot succeed.
type LazyRecord struct {
	mu        sync.Mutex
	record    map[string]any
	sensitive map[string]struct{}
	decrypt   DecryptFunc
	resolved  map[string]any
}

// NewLazyRecord wraps record with lazy decryption for the named fields.
func NewLazyRecord(record map[string]any, fields []string, decrypt DecryptFunc) *LazyRecord {
	sensitive := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		sensitive[f] = struct{}{}
	}
	return &LazyRecord{
		record:    record,
		sensitive: sensitive,
		decrypt:   decrypt,
		resolved:  make(map[string]any),
	}
}

// Get returns the field value, decrypting a sensitive envelope field on first
// access. Non-sensitive fields and plaintext sensitive fields pass through
// unchanged. Decryption failures return nil.
func (l *LazyRecord) Get(ctx context.Context, field string) any {
	if _, ok := l.sensitive[field]; !ok {
		return l.record[field]
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if value, done := l.resolved[field]; done {
		return value
	}

	value := l.record[field]
	env, isEnvelope := fieldcryptDomain.FromValue(value)
	if isEnvelope {
		decrypted, err := l.decrypt(ctx, env)
		if err != nil {
			decrypted = nil
		}
		value = decrypted
	}

	l.resolved[field] = value
	return value
}

// Snapshot returns a copy of the record with every field materialized so far:
// resolved sensitive fields appear decrypted, untouched ones as stored.
func (l *LazyRecord) Snapshot() map[string]any {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]any, len(l.record))
	for k, v := range l.record {
		out[k] = v
	}
	for k, v := range l.resolved {
		out[k] = v
	}
	return out
}
