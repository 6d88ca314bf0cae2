package implementation

import (
	"context"
	"time"

	"dce-cancel-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type cachedAuthorizationRepository struct {
	inner contract.AuthorizationRepository
	cache *cache.Cache
}

// NewCachedAuthorizationRepository wraps an authorization repository with a
// short-lived in-process cache. Only positive results are cached: a denial
// must always hit the store so newly registered pairings take effect
// immediately, and errors are never cached.
func NewCachedAuthorizationRepository(inner contract.AuthorizationRepository) contract.AuthorizationRepository {
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &cachedAuthorizationRepository{inner: inner, cache: c}
}

func (r *cachedAuthorizationRepository) IsAuthorized(ctx context.Context, accessKey, clientID string) (bool, error) {
	key := accessKey + "\x00" + clientID
	if _, found := r.cache.Get(key); found {
		return true, nil
	}

	authorized, err := r.inner.IsAuthorized(ctx, accessKey, clientID)
	if err != nil {
		return false, err
	}
	if authorized {
		r.cache.Set(key, struct{}{}, cache.DefaultExpiration)
	}
	return authorized, nil
}
