package gateway

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/goliatone/go-apicall/core"
	"github.com/goliatone/go-apicall/ratelimit"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

type guardOptions struct {
	logger  core.Logger
	limiter ratelimit.Limiter
	now     func() time.Time
}

type GuardOption func(*guardOptions)

func WithGuardLogger(logger core.Logger) GuardOption {
	return func(o *guardOptions) {
		o.logger = logger
	}
}

// WithLimiter throttles authenticated callers per handler name.
func WithLimiter(limiter ratelimit.Limiter) GuardOption {
	return func(o *guardOptions) {
		o.limiter = limiter
	}
}

func WithClock(now func() time.Time) GuardOption {
	return func(o *guardOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// Guard builds the call context for a request and decides whether the
// described handler may run with it.
type Guard[C core.CallContext] struct {
	provider   core.ContextProvider[C]
	authorizer core.ContextAuthorizer[C]
	limiter    ratelimit.Limiter
	logger     core.Logger
	now        func() time.Time
}

func NewGuard[C core.CallContext](
	provider core.ContextProvider[C],
	authorizer core.ContextAuthorizer[C],
	opts ...GuardOption,
) (*Guard[C], error) {
	if provider == nil {
		return nil, core.ConstructionError("gateway: context provider is required")
	}
	if authorizer == nil {
		return nil, core.ConstructionError("gateway: context authorizer is required")
	}
	options := guardOptions{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&options)
	}
	return &Guard[C]{
		provider:   provider,
		authorizer: authorizer,
		limiter:    options.limiter,
		logger:     glog.Ensure(options.logger),
		now:        options.now,
	}, nil
}

// Admit resolves the call context for req. Handlers requiring
// authentication need a non-blank caller id and the authorizer's approval for
// their required action; public handlers only get their context resolved.
func (g *Guard[C]) Admit(ctx context.Context, desc core.Descriptor, req core.Request) (C, error) {
	var zero C
	if g == nil {
		return zero, gatewayInternal("gateway: guard is nil", nil)
	}
	if desc == nil {
		return zero, gatewayBadInput("gateway: handler descriptor is required", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	name := strings.TrimSpace(desc.Name())
	metadata := map[string]any{"name": name}
	if correlationID := strings.TrimSpace(req.CorrelationID); correlationID != "" {
		metadata["correlation_id"] = correlationID
	}

	callCtx, err := g.provider.Resolve(ctx, req)
	if err != nil {
		return zero, gatewayWrapError(
			err,
			goerrors.CategoryBadInput,
			"gateway: resolve call context",
			http.StatusBadRequest,
			core.ErrorBadInput,
			metadata,
		)
	}
	if !desc.RequiresAuthentication() {
		return callCtx, nil
	}

	callerID := ""
	if !isNilContext(callCtx) {
		callerID = strings.TrimSpace(callCtx.CallerID())
	}
	if callerID == "" {
		g.logger.Warn("gateway: unauthenticated call rejected", "name", name)
		return zero, gatewayUnauthenticated(
			fmt.Sprintf("gateway: %q requires an authenticated caller", name),
			metadata,
		)
	}
	metadata["caller_id"] = callerID

	action := strings.TrimSpace(desc.RequiredAction())
	if action != "" {
		metadata["required_action"] = action
	}
	allowed, err := g.authorizer.Authorize(ctx, callCtx, action)
	if err != nil {
		return zero, gatewayWrapError(
			err,
			goerrors.CategoryInternal,
			"gateway: authorization check failed",
			http.StatusInternalServerError,
			core.ErrorInternal,
			metadata,
		)
	}
	if !allowed {
		g.logger.Warn("gateway: call forbidden", "name", name, "caller_id", callerID, "required_action", action)
		return zero, gatewayForbidden(
			fmt.Sprintf("gateway: caller %q may not call %q", callerID, name),
			metadata,
		)
	}

	if g.limiter != nil && !g.limiter.Allow(ratelimit.Key(callerID, name), g.now()) {
		throttled := ratelimit.ThrottledError{CallerID: callerID, Name: name}
		if hinted, ok := g.limiter.(interface{ RetryAfter() time.Duration }); ok {
			throttled.RetryAfter = hinted.RetryAfter()
		}
		return zero, throttled.ToServiceError()
	}

	g.logger.Debug("gateway: call admitted", "name", name, "caller_id", callerID)
	return callCtx, nil
}

func isNilContext(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
