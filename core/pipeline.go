package core

import (
	"context"
	"time"
)

// Phase classifies where an invocation ended.
type Phase string

const (
	PhaseCommitted Phase = "committed"
	PhaseStage     Phase = "stage"
	PhaseCancel    Phase = "cancel"
	PhaseCommit    Phase = "commit"
)

// Outcome is the tagged result of one invocation: exactly one of Result
// (Err == nil) or Err is meaningful. HookErr is whatever the dispatched hook
// returned and never alters Err.
type Outcome[Out any] struct {
	Result  Out
	Err     error
	Phase   Phase
	HookErr error
}

func (o Outcome[Out]) Succeeded() bool {
	return o.Err == nil
}

type Stage[U UnitOfWork, In any, Out any, C CallContext] func(ctx context.Context, unit U, in In, callCtx C) (Out, error)

type CompletedHook[In any, Out any, C CallContext] func(ctx context.Context, in In, out Out, callCtx C) error

type FailedHook[In any, Out any, C CallContext] func(ctx context.Context, err error, in In, out Out, callCtx C) error

// Definition composes a handler out of a business stage and two optional
// hooks. Handler, when set, is the value the identity name is derived from;
// otherwise the Stage func is used.
type Definition[U UnitOfWork, In any, Out any, C CallContext] struct {
	Handler           any
	Stage             Stage[U, In, Out, C]
	OnCommitCompleted CompletedHook[In, Out, C]
	OnCommitFailed    FailedHook[In, Out, C]
}

// Pipeline runs stage, then persist, then exactly one hook. It holds no
// locks; a unit shared across concurrent invocations must be safe for that
// on its own.
type Pipeline[U UnitOfWork, In any, Out any, C CallContext] struct {
	Identity

	runtime *Runtime
	unit    U
	def     Definition[U, In, Out, C]
	logger  Logger
}

func NewPipeline[U UnitOfWork, In any, Out any, C CallContext](
	runtime *Runtime,
	unit U,
	def Definition[U, In, Out, C],
	opts ...IdentityOption,
) (*Pipeline[U, In, Out, C], error) {
	if runtime == nil {
		return nil, ConstructionError("core: runtime is required")
	}
	if isNilValue(any(unit)) {
		return nil, ConstructionError("core: unit of work is required")
	}
	if def.Stage == nil {
		return nil, ConstructionError("core: stage func is required")
	}

	handler := def.Handler
	if handler == nil {
		handler = def.Stage
	}
	identity := NewIdentity(handler, opts...)
	if identity.Name() == "" {
		return nil, ConstructionError("core: handler name could not be resolved")
	}

	return &Pipeline[U, In, Out, C]{
		Identity: identity,
		runtime:  runtime,
		unit:     unit,
		def:      def,
		logger:   runtime.LoggerFor(identity.Name()),
	}, nil
}

func (p *Pipeline[U, In, Out, C]) Unit() U {
	return p.unit
}

// Execute returns the staged result after a successful commit, or the error
// from the stage or the persist call unchanged. Hook errors surface only
// under HookErrorPolicyReturn, as *HookError.
func (p *Pipeline[U, In, Out, C]) Execute(ctx context.Context, in In, callCtx C) (Out, error) {
	outcome := p.Run(ctx, in, callCtx)
	if outcome.HookErr != nil && p.runtime.config.HookErrorPolicy == HookErrorPolicyReturn {
		hook := "commit completed"
		if outcome.Err != nil {
			hook = "commit failed"
		}
		return outcome.Result, &HookError{
			Hook:  hook,
			Name:  p.Name(),
			Err:   outcome.HookErr,
			Cause: outcome.Err,
		}
	}
	return outcome.Result, outcome.Err
}

// Run executes the invocation and returns its classified outcome.
func (p *Pipeline[U, In, Out, C]) Run(ctx context.Context, in In, callCtx C) Outcome[Out] {
	if ctx == nil {
		ctx = context.Background()
	}
	startedAt := time.Now()
	outcome := p.invoke(ctx, in, callCtx)
	p.observe(ctx, startedAt, outcome.Phase, outcome.Err, outcome.HookErr, callCtx)
	return outcome
}

func (p *Pipeline[U, In, Out, C]) invoke(ctx context.Context, in In, callCtx C) Outcome[Out] {
	out, err := p.def.Stage(ctx, p.unit, in, callCtx)
	if err != nil {
		return p.fail(ctx, PhaseStage, err, in, callCtx)
	}
	if err := ctx.Err(); err != nil {
		return p.fail(ctx, PhaseCancel, err, in, callCtx)
	}
	if err := p.unit.SaveChanges(ctx); err != nil {
		return p.fail(ctx, PhaseCommit, err, in, callCtx)
	}

	outcome := Outcome[Out]{Result: out, Phase: PhaseCommitted}
	if p.def.OnCommitCompleted != nil {
		outcome.HookErr = p.def.OnCommitCompleted(ctx, in, out, callCtx)
	}
	return outcome
}

// fail never exposes an uncommitted result, to the caller or to the hook.
func (p *Pipeline[U, In, Out, C]) fail(ctx context.Context, phase Phase, err error, in In, callCtx C) Outcome[Out] {
	var zero Out
	outcome := Outcome[Out]{Result: zero, Err: err, Phase: phase}
	if p.def.OnCommitFailed != nil {
		outcome.HookErr = p.def.OnCommitFailed(ctx, err, in, zero, callCtx)
	}
	return outcome
}
