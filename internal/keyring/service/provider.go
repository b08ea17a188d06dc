package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	keyringDomain "github.com/casevault/fieldcrypt/internal/keyring/domain"
)

// Provider resolves derived keys, consulting the cache before deriving.
//
// Concurrent requests for the same identity pair are deduplicated with a
// singleflight group: the second caller waits for the first derivation
// instead of redoing the work, and both observe the same cached key. This is
// the in-flight guard that keeps "derive and insert" from interleaving.
type Provider struct {
	cache   *Cache
	deriver KeyDeriver
	group   singleflight.Group
	logger  *slog.Logger
}

// NewProvider creates a Provider over the given cache and deriver.
func NewProvider(cache *Cache, deriver KeyDeriver, logger *slog.Logger) *Provider {
	return &Provider{
		cache:   cache,
		deriver: deriver,
		logger:  logger,
	}
}

// ObtainKey returns the derived key for the identity pair, deriving and
// caching it on first use.
func (p *Provider) ObtainKey(ctx context.Context, userID, email string) (keyringDomain.DerivedKey, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if key, ok := p.cache.Get(userID, email); ok {
		return key, nil
	}

	slot := cacheKey(userID, email)
	value, err, shared := p.group.Do(slot, func() (any, error) {
		// A concurrent caller may have populated the slot while this call
		// waited on the group.
		if key, ok := p.cache.Get(userID, email); ok {
			return key, nil
		}

		key, err := p.deriver.DeriveKey(userID, email)
		if err != nil {
			return nil, err
		}

		p.cache.Put(userID, email, key)
		p.logger.Debug("derived session key", slog.String("user_id", userID))
		return key, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		p.logger.Debug("deduplicated concurrent key derivation", slog.String("user_id", userID))
	}

	return value.(keyringDomain.DerivedKey), nil
}

// Ready reports whether a key for the identity pair is already cached.
func (p *Provider) Ready(userID, email string) bool {
	_, ok := p.cache.Get(userID, email)
	return ok
}

// Clear empties the underlying cache. Called on logout.
func (p *Provider) Clear() {
	p.cache.Clear()
}
