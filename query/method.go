package query

import (
	"context"
	"strings"

	"github.com/goliatone/go-apicall/core"
	"github.com/goliatone/go-apicall/gateway"
	gocmd "github.com/goliatone/go-command"
)

type Invoke[M gateway.Envelope, R any, C core.CallContext] func(ctx context.Context, msg M, callCtx C) (R, error)

// Method exposes a result-returning pipeline as a go-command Querier. When
// dispatched as a command the result is stored in the context collector.
type Method[M gateway.Envelope, R any, C core.CallContext] struct {
	descriptor core.Descriptor
	guard      *gateway.Guard[C]
	invoke     Invoke[M, R, C]
}

func NewMethod[M gateway.Envelope, R any, C core.CallContext](
	descriptor core.Descriptor,
	guard *gateway.Guard[C],
	invoke Invoke[M, R, C],
) (*Method[M, R, C], error) {
	if descriptor == nil {
		return nil, queryDependencyError("query: handler descriptor is required")
	}
	if guard == nil {
		return nil, queryDependencyError("query: guard is required")
	}
	if invoke == nil {
		return nil, queryDependencyError("query: invoke func is required")
	}
	return &Method[M, R, C]{descriptor: descriptor, guard: guard, invoke: invoke}, nil
}

func (m *Method[M, R, C]) Query(ctx context.Context, msg M) (R, error) {
	var zero R
	if m == nil || m.guard == nil || m.invoke == nil {
		return zero, queryDependencyError("query: method is not configured")
	}
	if err := validateEnvelope(msg); err != nil {
		return zero, err
	}
	callCtx, err := m.guard.Admit(ctx, m.descriptor, msg.CallRequest())
	if err != nil {
		return zero, err
	}
	return m.invoke(ctx, msg, callCtx)
}

func (m *Method[M, R, C]) Execute(ctx context.Context, msg M) error {
	out, err := m.Query(ctx, msg)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func (m *Method[M, R, C]) Name() string { return m.descriptor.Name() }

func (m *Method[M, R, C]) RequiresAuthentication() bool { return m.descriptor.RequiresAuthentication() }

func (m *Method[M, R, C]) RequiredAction() string { return m.descriptor.RequiredAction() }

type validator interface {
	Validate() error
}

func validateEnvelope(msg any) error {
	typed, ok := msg.(gateway.Envelope)
	if !ok || strings.TrimSpace(typed.Type()) == "" {
		return queryValidationError("type", "message type is required")
	}
	if v, ok := msg.(validator); ok {
		if err := v.Validate(); err != nil {
			return queryWrapValidation(err, "query: message validation failed")
		}
	}
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
