package gateway

import (
	"context"
	"net/url"
	"strings"

	"github.com/goliatone/go-apicall/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const authorizationCacheKeyPrefix = "go-apicall::authorization::v1"

// CachedAuthorizer memoizes authorization decisions per caller and action.
type CachedAuthorizer[C core.CallContext] struct {
	base  core.ContextAuthorizer[C]
	cache repositorycache.CacheService
}

func NewCachedAuthorizer[C core.CallContext](
	base core.ContextAuthorizer[C],
	cacheService repositorycache.CacheService,
) (*CachedAuthorizer[C], error) {
	if base == nil {
		return nil, core.ConstructionError("gateway: base authorizer is required")
	}
	if cacheService == nil {
		return nil, core.ConstructionError("gateway: authorization cache service is required")
	}
	return &CachedAuthorizer[C]{base: base, cache: cacheService}, nil
}

// AuthorizationCacheKey is go-apicall::authorization::v1::<caller>::<action>
// with each segment URL-path escaped.
func AuthorizationCacheKey(callerID string, action string) string {
	return strings.Join([]string{
		authorizationCacheKeyPrefix,
		url.PathEscape(strings.TrimSpace(callerID)),
		url.PathEscape(strings.TrimSpace(action)),
	}, "::")
}

func (a *CachedAuthorizer[C]) Authorize(ctx context.Context, callCtx C, requiredAction string) (bool, error) {
	if a == nil || a.base == nil || a.cache == nil {
		return false, gatewayInternal("gateway: cached authorizer is not configured", nil)
	}
	callerID := ""
	if !isNilContext(callCtx) {
		callerID = strings.TrimSpace(callCtx.CallerID())
	}
	if callerID == "" {
		return a.base.Authorize(ctx, callCtx, requiredAction)
	}
	key := AuthorizationCacheKey(callerID, requiredAction)
	return repositorycache.GetOrFetch(ctx, a.cache, key, func(ctx context.Context) (bool, error) {
		return a.base.Authorize(ctx, callCtx, requiredAction)
	})
}

// Forget drops the cached decision for callerID and action.
func (a *CachedAuthorizer[C]) Forget(ctx context.Context, callerID string, action string) error {
	if a == nil || a.cache == nil {
		return nil
	}
	return a.cache.Delete(ctx, AuthorizationCacheKey(callerID, action))
}

var _ core.ContextAuthorizer[core.RequestContext] = (*CachedAuthorizer[core.RequestContext])(nil)
