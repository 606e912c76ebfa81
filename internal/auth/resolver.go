package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultResolverCacheSize = 4 * 1024 * 1024
	DefaultResolverCacheTTL  = time.Minute
)

// IdentityResolver maps session tokens to identities with a small in-process
// cache in front of the session storage.
type IdentityResolver struct {
	sessions SessionStorage
	cache    *freecache.Cache
	cacheTTL time.Duration
}

func NewIdentityResolver(sessions SessionStorage, cacheSize int, cacheTTL time.Duration) *IdentityResolver {
	if cacheSize <= 0 {
		cacheSize = DefaultResolverCacheSize
	}
	if cacheTTL < time.Second {
		cacheTTL = DefaultResolverCacheTTL
	}
	return &IdentityResolver{
		sessions: sessions,
		cache:    freecache.NewCache(cacheSize),
		cacheTTL: cacheTTL,
	}
}

// Resolve returns nil and no error when the token has no live session.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, nil
	}

	key := []byte(token)
	if cached, err := r.cache.Get(key); err == nil {
		var identity Identity
		unmarshalErr := json.Unmarshal(cached, &identity)
		if unmarshalErr == nil {
			return &identity, nil
		}
		log.Errorf("resolver: drop malformed cache entry: %s", unmarshalErr)
		r.cache.Del(key)
	}

	identity, err := r.sessions.Get(ctx, token)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	identityBytes, err := json.Marshal(identity)
	if err != nil {
		return nil, err
	}
	// freecache treats 0 as "never expires", so short-lived sessions are not cached
	if expireSeconds := int(r.entryTTL(identity).Seconds()); expireSeconds > 0 {
		if err := r.cache.Set(key, identityBytes, expireSeconds); err != nil {
			log.Warnf("resolver: cache set: %s", err)
		}
	}

	return identity, nil
}

// entryTTL never lets a cache entry outlive the session behind it.
func (r *IdentityResolver) entryTTL(identity *Identity) time.Duration {
	if identity.ExpiresAt.IsZero() {
		return r.cacheTTL
	}
	return min(r.cacheTTL, time.Until(identity.ExpiresAt))
}

func (r *IdentityResolver) Invalidate(token string) {
	r.cache.Del([]byte(token))
}
