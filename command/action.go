package command

import (
	"context"
	"strings"

	"github.com/goliatone/go-apicall/core"
	"github.com/goliatone/go-apicall/gateway"
)

// Invoke runs an admitted message against a pipeline with the resolved call
// context.
type Invoke[M gateway.Envelope, C core.CallContext] func(ctx context.Context, msg M, callCtx C) error

// Action exposes a no-result pipeline as a go-command Commander. Execute
// validates the message, admits it through the guard, then invokes.
type Action[M gateway.Envelope, C core.CallContext] struct {
	descriptor core.Descriptor
	guard      *gateway.Guard[C]
	invoke     Invoke[M, C]
}

func NewAction[M gateway.Envelope, C core.CallContext](
	descriptor core.Descriptor,
	guard *gateway.Guard[C],
	invoke Invoke[M, C],
) (*Action[M, C], error) {
	if descriptor == nil {
		return nil, commandDependencyError("command: handler descriptor is required")
	}
	if guard == nil {
		return nil, commandDependencyError("command: guard is required")
	}
	if invoke == nil {
		return nil, commandDependencyError("command: invoke func is required")
	}
	return &Action[M, C]{descriptor: descriptor, guard: guard, invoke: invoke}, nil
}

func (a *Action[M, C]) Execute(ctx context.Context, msg M) error {
	if a == nil || a.guard == nil || a.invoke == nil {
		return commandDependencyError("command: action is not configured")
	}
	if err := validateEnvelope(msg); err != nil {
		return err
	}
	callCtx, err := a.guard.Admit(ctx, a.descriptor, msg.CallRequest())
	if err != nil {
		return err
	}
	return a.invoke(ctx, msg, callCtx)
}

func (a *Action[M, C]) Name() string { return a.descriptor.Name() }

func (a *Action[M, C]) RequiresAuthentication() bool { return a.descriptor.RequiresAuthentication() }

func (a *Action[M, C]) RequiredAction() string { return a.descriptor.RequiredAction() }

type validator interface {
	Validate() error
}

func validateEnvelope(msg any) error {
	typed, ok := msg.(gateway.Envelope)
	if !ok || strings.TrimSpace(typed.Type()) == "" {
		return commandValidationError("type", "message type is required")
	}
	if v, ok := msg.(validator); ok {
		if err := v.Validate(); err != nil {
			return commandWrapValidation(err, "command: message validation failed")
		}
	}
	return nil
}
