package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// UnitOfWork buffers staged domain mutations until SaveChanges persists them.
type UnitOfWork interface {
	SaveChanges(ctx context.Context) error
}

type UnitOfWorkFunc func(ctx context.Context) error

func (f UnitOfWorkFunc) SaveChanges(ctx context.Context) error {
	if f == nil {
		return nil
	}
	return f(ctx)
}

// CallContext is the per-invocation value carried through the pipeline into
// hooks. Implementations must not be shared across concurrent invocations.
type CallContext interface {
	CallerID() string
	CorrelationID() string
}

type RequestContext struct {
	Caller      string
	Correlation string
	Roles       []string
	Metadata    map[string]any
}

func (c RequestContext) CallerID() string { return c.Caller }

func (c RequestContext) CorrelationID() string { return c.Correlation }

// Request is the raw inbound call a ContextProvider resolves into a CallContext.
type Request struct {
	Principal     string
	Token         string
	CorrelationID string
	Metadata      map[string]any
}

type ContextProvider[C CallContext] interface {
	Resolve(ctx context.Context, req Request) (C, error)
}

type ContextProviderFunc[C CallContext] func(ctx context.Context, req Request) (C, error)

func (f ContextProviderFunc[C]) Resolve(ctx context.Context, req Request) (C, error) {
	return f(ctx, req)
}

// ContextAuthorizer decides whether a resolved context may run an action.
// An empty requiredAction means the handler names no policy action.
type ContextAuthorizer[C CallContext] interface {
	Authorize(ctx context.Context, callCtx C, requiredAction string) (bool, error)
}

type ContextAuthorizerFunc[C CallContext] func(ctx context.Context, callCtx C, requiredAction string) (bool, error)

func (f ContextAuthorizerFunc[C]) Authorize(ctx context.Context, callCtx C, requiredAction string) (bool, error) {
	return f(ctx, callCtx, requiredAction)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

// Observer receives one classified Report per pipeline invocation.
type Observer interface {
	ObserveInvocation(ctx context.Context, report Report)
}

type ObserverFunc func(ctx context.Context, report Report)

func (f ObserverFunc) ObserveInvocation(ctx context.Context, report Report) {
	if f == nil {
		return
	}
	f(ctx, report)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
