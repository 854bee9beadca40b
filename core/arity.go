package core

import "context"

// The Method and Action families below are fixed-arity facades over a single
// Pipeline: inputs are packed into an ArgsN tuple and unpacked again before
// reaching the stage and hook funcs. Every arity follows the same
// stage, persist, hook sequence.

// Unit is the result type of the action family.
type Unit struct{}

type Args0 struct{}

type Args1[I1 any] struct {
	In1 I1
}

type Args2[I1, I2 any] struct {
	In1 I1
	In2 I2
}

type Args3[I1, I2, I3 any] struct {
	In1 I1
	In2 I2
	In3 I3
}

type Args4[I1, I2, I3, I4 any] struct {
	In1 I1
	In2 I2
	In3 I3
	In4 I4
}

type MethodDef0[U UnitOfWork, R any, C CallContext] struct {
	Handler           any
	Stage             func(ctx context.Context, unit U, callCtx C) (R, error)
	OnCommitCompleted func(ctx context.Context, result R, callCtx C) error
	OnCommitFailed    func(ctx context.Context, err error, result R, callCtx C) error
}

type Method0[U UnitOfWork, R any, C CallContext] struct {
	pipeline *Pipeline[U, Args0, R, C]
}

func NewMethod0[U UnitOfWork, R any, C CallContext](
	runtime *Runtime,
	unit U,
	def MethodDef0[U, R, C],
	opts ...IdentityOption,
) (*Method0[U, R, C], error) {
	if def.Stage == nil {
		return nil, ConstructionError("core: stage func is required")
	}
	handler := def.Handler
	if handler == nil {
		handler = def.Stage
	}
	inner := Definition[U, Args0, R, C]{Handler: handler}
	inner.Stage = func(ctx context.Context, unit U, in Args0, callCtx C) (R, error) {
		return def.Stage(ctx, unit, callCtx)
	}
	if def.OnCommitCompleted != nil {
		inner.OnCommitCompleted = func(ctx context.Context, in Args0, out R, callCtx C) error {
			return def.OnCommitCompleted(ctx, out, callCtx)
		}
	}
	if def.OnCommitFailed != nil {
		inner.OnCommitFailed = func(ctx context.Context, err error, in Args0, out R, callCtx C) error {
			return def.OnCommitFailed(ctx, err, out, callCtx)
		}
	}
	pipeline, err := NewPipeline(runtime, unit, inner, opts...)
	if err != nil {
		return nil, err
	}
	return &Method0[U, R, C]{pipeline: pipeline}, nil
}

func (m *Method0[U, R, C]) Invoke(ctx context.Context, callCtx C) (R, error) {
	return m.pipeline.Execute(ctx, Args0{}, callCtx)
}

func (m *Method0[U, R, C]) Name() string { return m.pipeline.Name() }

func (m *Method0[U, R, C]) RequiresAuthentication() bool { return m.pipeline.RequiresAuthentication() }

func (m *Method0[U, R, C]) RequiredAction() string { return m.pipeline.RequiredAction() }

func (m *Method0[U, R, C]) Pipeline() *Pipeline[U, Args0, R, C] { return m.pipeline }

type MethodDef1[U UnitOfWork, I1, R any, C CallContext] struct {
	Handler           any
	Stage             func(ctx context.Context, unit U, in1 I1, callCtx C) (R, error)
	OnCommitCompleted func(ctx context.Context, in1 I1, result R, callCtx C) error
	OnCommitFailed    func(ctx context.Context, err error, in1 I1, result R, callCtx C) error
}

type Method1[U UnitOfWork, I1, R any, C CallContext] struct {
	pipeline *Pipeline[U, Args1[I1], R, C]
}

func NewMethod1[U UnitOfWork, I1, R any, C CallContext](
	runtime *Runtime,
	unit U,
	def MethodDef1[U, I1, R, C],
	opts ...IdentityOption,
) (*Method1[U, I1, R, C], error) {
	if def.Stage == nil {
		return nil, ConstructionError("core: stage func is required")
	}
	handler := def.Handler
	if handler == nil {
		handler = def.Stage
	}
	inner := Definition[U, Args1[I1], R, C]{Handler: handler}
	inner.Stage = func(ctx context.Context, unit U, in Args1[I1], callCtx C) (R, error) {
		return def.Stage(ctx, unit, in.In1, callCtx)
	}
	if def.OnCommitCompleted != nil {
		inner.OnCommitCompleted = func(ctx context.Context, in Args1[I1], out R, callCtx C) error {
			return def.OnCommitCompleted(ctx, in.In1, out, callCtx)
		}
	}
	if def.OnCommitFailed != nil {
		inner.OnCommitFailed = func(ctx context.Context, err error, in Args1[I1], out R, callCtx C) error {
			return def.OnCommitFailed(ctx, err, in.In1, out, callCtx)
		}
	}
	pipeline, err := NewPipeline(runtime, unit, inner, opts...)
	if err != nil {
		return nil, err
	}
	return &Method1[U, I1, R, C]{pipeline: pipeline}, nil
}

func (m *Method1[U, I1, R, C]) Invoke(ctx context.Context, in1 I1, callCtx C) (R, error) {
	return m.pipeline.Execute(ctx, Args1[I1]{In1: in1}, callCtx)
}

func (m *Method1[U, I1, R, C]) Name() string { return m.pipeline.Name() }

func (m *Method1[U, I1, R, C]) RequiresAuthentication() bool { return m.pipeline.RequiresAuthentication() }

func (m *Method1[U, I1, R, C]) RequiredAction() string { return m.pipeline.RequiredAction() }

func (m *Method1[U, I1, R, C]) Pipeline() *Pipeline[U, Args1[I1], R, C] { return m.pipeline }

type MethodDef2[U UnitOfWork, I1, I2, R any, C CallContext] struct {
	Handler           any
	Stage             func(ctx context.Context, unit U, in1 I1, in2 I2, callCtx C) (R, error)
	OnCommitCompleted func(ctx context.Context, in1 I1, in2 I2, result R, callCtx C) error
	OnCommitFailed    func(ctx context.Context, err error, in1 I1, in2 I2, result R, callCtx C) error
}

type Method2[U UnitOfWork, I1, I2, R any, C CallContext] struct {
	pipeline *Pipeline[U, Args2[I1, I2], R, C]
}

func NewMethod2[U UnitOfWork, I1, I2, R any, C CallContext](
	runtime *Runtime,
	unit U,
	def MethodDef2[U, I1, I2, R, C],
	opts ...IdentityOption,
) (*Method2[U, I1, I2, R, C], error) {
	if def.Stage == nil {
		return nil, ConstructionError("core: stage func is required")
	}
	handler := def.Handler
	if handler == nil {
		handler = def.Stage
	}
	inner := Definition[U, Args2[I1, I2], R, C]{Handler: handler}
	inner.Stage = func(ctx context.Context, unit U, in Args2[I1, I2], callCtx C) (R, error) {
		return def.Stage(ctx, unit, in.In1, in.In2, callCtx)
	}
	if def.OnCommitCompleted != nil {
		inner.OnCommitCompleted = func(ctx context.Context, in Args2[I1, I2], out R, callCtx C) error {
			return def.OnCommitCompleted(ctx, in.In1, in.In2, out, callCtx)
		}
	}
	if def.OnCommitFailed != nil {
		inner.OnCommitFailed = func(ctx context.Context, err error, in Args2[I1, I2], out R, callCtx C) error {
			return def.OnCommitFailed(ctx, err, in.In1, in.In2, out, callCtx)
		}
	}
	pipeline, err := NewPipeline(runtime, unit, inner, opts...)
	if err != nil {
		return nil, err
	}
	return &Method2[U, I1, I2, R, C]{pipeline: pipeline}, nil
}

func (m *Method2[U, I1, I2, R, C]) Invoke(ctx context.Context, in1 I1, in2 I2, callCtx C) (R, error) {
	return m.pipeline.Execute(ctx, Args2[I1, I2]{In1: in1, In2: in2}, callCtx)
}

func (m *Method2[U, I1, I2, R, C]) Name() string { return m.pipeline.Name() }

func (m *Method2[U, I1, I2, R, C]) RequiresAuthentication() bool { return m.pipeline.RequiresAuthentication() }

func (m *Method2[U, I1, I2, R, C]) RequiredAction() string { return m.pipeline.RequiredAction() }

func (m *Method2[U, I1, I2, R, C]) Pipeline() *Pipeline[U, Args2[I1, I2], R, C] { return m.pipeline }

type MethodDef3[U UnitOfWork, I1, I2, I3, R any, C CallContext] struct {
	Handler           any
	Stage             func(ctx context.Context, unit U, in1 I1, in2 I2, in3 I3, callCtx C) (R, error)
	OnCommitCompleted func(ctx context.Context, in1 I1, in2 I2, in3 I3, result R, callCtx C) error
	OnCommitFailed    func(ctx context.Context, err error, in1 I1, in2 I2, in3 I3, result R, callCtx C) error
}

type Method3[U UnitOfWork, I1, I2, I3, R any, C CallContext] struct {
	pipeline *Pipeline[U, Args3[I1, I2, I3], R, C]
}

func NewMethod3[U UnitOfWork, I1, I2, I3, R any, C CallContext](
	runtime *Runtime,
	unit U,
	def MethodDef3[U, I1, I2, I3, R, C],
	opts ...IdentityOption,
) (*Method3[U, I1, I2, I3, R, C], error) {
	if def.Stage == nil {
		return nil, ConstructionError("core: stage func is required")
	}
	handler := def.Handler
	if handler == nil {
		handler = def.Stage
	}
	inner := Definition[U, Args3[I1, I2, I3], R, C]{Handler: handler}
	inner.Stage = func(ctx context.Context, unit U, in Args3[I1, I2, I3], callCtx C) (R, error) {
		return def.Stage(ctx, unit, in.In1, in.In2, in.In3, callCtx)
	}
	if def.OnCommitCompleted != nil {
		inner.OnCommitCompleted = func(ctx context.Context, in Args3[I1, I2, I3], out R, callCtx C) error {
			return def.OnCommitCompleted(ctx, in.In1, in.In2, in.In3, out, callCtx)
		}
	}
	if def.OnCommitFailed != nil {
		inner.OnCommitFailed = func(ctx context.Context, err error, in Args3[I1, I2, I3], out R, callCtx C) error {
			return def.OnCommitFailed(ctx, err, in.In1, in.In2, in.In3, out, callCtx)
		}
	}
	pipeline, err := NewPipeline(runtime, unit, inner, opts...)
	if err != nil {
		return nil, err
	}
	return &Method3[U, I1, I2, I3, R, C]{pipeline: pipeline}, nil
}

func (m *Method3[U, I1, I2, I3, R, C]) Invoke(ctx context.Context, in1 I1, in2 I2, in3 I3, callCtx C) (R, error) {
	return m.pipeline.Execute(ctx, Args3[I1, I2, I3]{In1: in1, In2: in2, In3: in3}, callCtx)
}

func (m *Method3[U, I1, I2, I3, R, C]) Name() string { return m.pipeline.Name() }

func (m *Method3[U, I1, I2, I3, R, C]) RequiresAuthentication() bool { return m.pipeline.RequiresAuthentication() }

func (m *Method3[U, I1, I2, I3, R, C]) RequiredAction() string { return m.pipeline.RequiredAction() }

func (m *Method3[U, I1, I2, I3, R, C]) Pipeline() *Pipeline[U, Args3[I1, I2, I3], R, C] { return m.pipeline }

type MethodDef4[U UnitOfWork, I1, I2, I3, I4, R any, C CallContext] struct {
	Handler           any
	Stage             func(ctx context.Context, unit U, in1 I1, in2 I2, in3 I3, in4 I4, callCtx C) (R, error)
	OnCommitCompleted func(ctx context.Context, in1 I1, in2 I2, in3 I3, in4 I4, result R, callCtx C) error
	OnCommitFailed    func(ctx context.Context, err error, in1 I1, in2 I2, in3 I3, in4 I4, result R, callCtx C) error
}

type Method4[U UnitOfWork, I1, I2, I3, I4, R any, C CallContext] struct {
	pipeline *Pipeline[U, Args4[I1, I2, I3, I4], R, C]
}

func NewMethod4[U UnitOfWork, I1, I2, I3, I4, R any, C CallContext](
	runtime *Runtime,
	unit U,
	def MethodDef4[U, I1, I2, I3, I4, R, C],
	opts ...IdentityOption,
) (*Method4[U, I1, I2, I3, I4, R, C], error) {
	if def.Stage == nil {
		return nil, ConstructionError("core: stage func is required")
	}
	handler := def.Handler
	if handler == nil {
		handler = def.Stage
	}
	inner := Definition[U, Args4[I1, I2, I3, I4], R, C]{Handler: handler}
	inner.Stage = func(ctx context.Context, unit U, in Args4[I1, I2, I3, I4], callCtx C) (R, error) {
		return def.Stage(ctx, unit, in.In1, in.In2, in.In3, in.In4, callCtx)
	}
	if def.OnCommitCompleted != nil {
		inner.OnCommitCompleted = func(ctx context.Context, in Args4[I1, I2, I3, I4], out R, callCtx C) error {
			return def.OnCommitCompleted(ctx, in.In1, in.In2, in.In3, in.In4, out, callCtx)
		}
	}
	if def.OnCommitFailed != nil {
		inner.OnCommitFailed = func(ctx context.Context, err error, in Args4[I1, I2, I3, I4], out R, callCtx C) error {
			return def.OnCommitFailed(ctx, err, in.In1, in.In2, in.In3, in.In4, out, callCtx)
		}
	}
	pipeline, err := NewPipeline(runtime, unit, inner, opts...)
	if err != nil {
		return nil, err
	}
	return &Method4[U, I1, I2, I3, I4, R, C]{pipeline: pipeline}, nil
}

func (m *Method4[U, I1, I2, I3, I4, R, C]) Invoke(ctx context.Context, in1 I1, in2 I2, in3 I3, in4 I4, callCtx C) (R, error) {
	return m.pipeline.Execute(ctx, Args4[I1, I2, I3, I4]{In1: in1, In2: in2, In3: in3, In4: in4}, callCtx)
}

func (m *Method4[U, I1, I2, I3, I4, R, C]) Name() string { return m.pipeline.Name() }

func (m *Method4[U, I1, I2, I3, I4, R, C]) RequiresAuthentication() bool { return m.pipeline.RequiresAuthentication() }

func (m *Method4[U, I1, I2, I3, I4, R, C]) RequiredAction() string { return m.pipeline.RequiredAction() }

func (m *Method4[U, I1, I2, I3, I4, R, C]) Pipeline() *Pipeline[U, Args4[I1, I2, I3, I4], R, C] { return m.pipeline }

type ActionDef0[U UnitOfWork, C CallContext] struct {
	Handler           any
	Stage             func(ctx context.Context, unit U, callCtx C) error
	OnCommitCompleted func(ctx context.Context, callCtx C) error
	OnCommitFailed    func(ctx context.Context, err error, callCtx C) error
}

type Action0[U UnitOfWork, C CallContext] struct {
	pipeline *Pipeline[U, Args0, Unit, C]
}

func NewAction0[U UnitOfWork, C CallContext](
	runtime *Runtime,
	unit U,
	def ActionDef0[U, C],
	opts ...IdentityOption,
) (*Action0[U, C], error) {
	if def.Stage == nil {
		return nil, ConstructionError("core: stage func is required")
	}
	handler := def.Handler
	if handler == nil {
		handler = def.Stage
	}
	inner := Definition[U, Args0, Unit, C]{Handler: handler}
	inner.Stage = func(ctx context.Context, unit U, in Args0, callCtx C) (Unit, error) {
		return Unit{}, def.Stage(ctx, unit, callCtx)
	}
	if def.OnCommitCompleted != nil {
		inner.OnCommitCompleted = func(ctx context.Context, in Args0, _ Unit, callCtx C) error {
			return def.OnCommitCompleted(ctx, callCtx)
		}
	}
	if def.OnCommitFailed != nil {
		inner.OnCommitFailed = func(ctx context.Context, err error, in Args0, _ Unit, callCtx C) error {
			return def.OnCommitFailed(ctx, err, callCtx)
		}
	}
	pipeline, err := NewPipeline(runtime, unit, inner, opts...)
	if err != nil {
		return nil, err
	}
	return &Action0[U, C]{pipeline: pipeline}, nil
}

func (a *Action0[U, C]) Invoke(ctx context.Context, callCtx C) error {
	_, err := a.pipeline.Execute(ctx, Args0{}, callCtx)
	return err
}

func (a *Action0[U, C]) Name() string { return a.pipeline.Name() }

func (a *Action0[U, C]) RequiresAuthentication() bool { return a.pipeline.RequiresAuthentication() }

func (a *Action0[U, C]) RequiredAction() string { return a.pipeline.RequiredAction() }

func (a *Action0[U, C]) Pipeline() *Pipeline[U, Args0, Unit, C] { return a.pipeline }

type ActionDef1[U UnitOfWork, I1 any, C CallContext] struct {
	Handler           any
	Stage             func(ctx context.Context, unit U, in1 I1, callCtx C) error
	OnCommitCompleted func(ctx context.Context, in1 I1, callCtx C) error
	OnCommitFailed    func(ctx context.Context, err error, in1 I1, callCtx C) error
}

type Action1[U UnitOfWork, I1 any, C CallContext] struct {
	pipeline *Pipeline[U, Args1[I1], Unit, C]
}

func NewAction1[U UnitOfWork, I1 any, C CallContext](
	runtime *Runtime,
	unit U,
	def ActionDef1[U, I1, C],
	opts ...IdentityOption,
) (*Action1[U, I1, C], error) {
	if def.Stage == nil {
		return nil, ConstructionError("core: stage func is required")
	}
	handler := def.Handler
	if handler == nil {
		handler = def.Stage
	}
	inner := Definition[U, Args1[I1], Unit, C]{Handler: handler}
	inner.Stage = func(ctx context.Context, unit U, in Args1[I1], callCtx C) (Unit, error) {
		return Unit{}, def.Stage(ctx, unit, in.In1, callCtx)
	}
	if def.OnCommitCompleted != nil {
		inner.OnCommitCompleted = func(ctx context.Context, in Args1[I1], _ Unit, callCtx C) error {
			return def.OnCommitCompleted(ctx, in.In1, callCtx)
		}
	}
	if def.OnCommitFailed != nil {
		inner.OnCommitFailed = func(ctx context.Context, err error, in Args1[I1], _ Unit, callCtx C) error {
			return def.OnCommitFailed(ctx, err, in.In1, callCtx)
		}
	}
	pipeline, err := NewPipeline(runtime, unit, inner, opts...)
	if err != nil {
		return nil, err
	}
	return &Action1[U, I1, C]{pipeline: pipeline}, nil
}

func (a *Action1[U, I1, C]) Invoke(ctx context.Context, in1 I1, callCtx C) error {
	_, err := a.pipeline.Execute(ctx, Args1[I1]{In1: in1}, callCtx)
	return err
}

func (a *Action1[U, I1, C]) Name() string { return a.pipeline.Name() }

func (a *Action1[U, I1, C]) RequiresAuthentication() bool { return a.pipeline.RequiresAuthentication() }

func (a *Action1[U, I1, C]) RequiredAction() string { return a.pipeline.RequiredAction() }

func (a *Action1[U, I1, C]) Pipeline() *Pipeline[U, Args1[I1], Unit, C] { return a.pipeline }

type ActionDef2[U UnitOfWork, I1, I2 any, C CallContext] struct {
	Handler           any
	Stage             func(ctx context.Context, unit U, in1 I1, in2 I2, callCtx C) error
	OnCommitCompleted func(ctx context.Context, in1 I1, in2 I2, callCtx C) error
	OnCommitFailed    func(ctx context.Context, err error, in1 I1, in2 I2, callCtx C) error
}

type Action2[U UnitOfWork, I1, I2 any, C CallContext] struct {
	pipeline *Pipeline[U, Args2[I1, I2], Unit, C]
}

func NewAction2[U UnitOfWork, I1, I2 any, C CallContext](
	runtime *Runtime,
	unit U,
	def ActionDef2[U, I1, I2, C],
	opts ...IdentityOption,
) (*Action2[U, I1, I2, C], error) {
	if def.Stage == nil {
		return nil, ConstructionError("core: stage func is required")
	}
	handler := def.Handler
	if handler == nil {
		handler = def.Stage
	}
	inner := Definition[U, Args2[I1, I2], Unit, C]{Handler: handler}
	inner.Stage = func(ctx context.Context, unit U, in Args2[I1, I2], callCtx C) (Unit, error) {
		return Unit{}, def.Stage(ctx, unit, in.In1, in.In2, callCtx)
	}
	if def.OnCommitCompleted != nil {
		inner.OnCommitCompleted = func(ctx context.Context, in Args2[I1, I2], _ Unit, callCtx C) error {
			return def.OnCommitCompleted(ctx, in.In1, in.In2, callCtx)
		}
	}
	if def.OnCommitFailed != nil {
		inner.OnCommitFailed = func(ctx context.Context, err error, in Args2[I1, I2], _ Unit, callCtx C) error {
			return def.OnCommitFailed(ctx, err, in.In1, in.In2, callCtx)
		}
	}
	pipeline, err := NewPipeline(runtime, unit, inner, opts...)
	if err != nil {
		return nil, err
	}
	return &Action2[U, I1, I2, C]{pipeline: pipeline}, nil
}

func (a *Action2[U, I1, I2, C]) Invoke(ctx context.Context, in1 I1, in2 I2, callCtx C) error {
	_, err := a.pipeline.Execute(ctx, Args2[I1, I2]{In1: in1, In2: in2}, callCtx)
	return err
}

func (a *Action2[U, I1, I2, C]) Name() string { return a.pipeline.Name() }

func (a *Action2[U, I1, I2, C]) RequiresAuthentication() bool { return a.pipeline.RequiresAuthentication() }

func (a *Action2[U, I1, I2, C]) RequiredAction() string { return a.pipeline.RequiredAction() }

func (a *Action2[U, I1, I2, C]) Pipeline() *Pipeline[U, Args2[I1, I2], Unit, C] { return a.pipeline }

type ActionDef3[U UnitOfWork, I1, I2, I3 any, C CallContext] struct {
	Handler           any
	Stage             func(ctx context.Context, unit U, in1 I1, in2 I2, in3 I3, callCtx C) error
	OnCommitCompleted func(ctx context.Context, in1 I1, in2 I2, in3 I3, callCtx C) error
	OnCommitFailed    func(ctx context.Context, err error, in1 I1, in2 I2, in3 I3, callCtx C) error
}

type Action3[U UnitOfWork, I1, I2, I3 any, C CallContext] struct {
	pipeline *Pipeline[U, Args3[I1, I2, I3], Unit, C]
}

func NewAction3[U UnitOfWork, I1, I2, I3 any, C CallContext](
	runtime *Runtime,
	unit U,
	def ActionDef3[U, I1, I2, I3, C],
	opts ...IdentityOption,
) (*Action3[U, I1, I2, I3, C], error) {
	if def.Stage == nil {
		return nil, ConstructionError("core: stage func is required")
	}
	handler := def.Handler
	if handler == nil {
		handler = def.Stage
	}
	inner := Definition[U, Args3[I1, I2, I3], Unit, C]{Handler: handler}
	inner.Stage = func(ctx context.Context, unit U, in Args3[I1, I2, I3], callCtx C) (Unit, error) {
		return Unit{}, def.Stage(ctx, unit, in.In1, in.In2, in.In3, callCtx)
	}
	if def.OnCommitCompleted != nil {
		inner.OnCommitCompleted = func(ctx context.Context, in Args3[I1, I2, I3], _ Unit, callCtx C) error {
			return def.OnCommitCompleted(ctx, in.In1, in.In2, in.In3, callCtx)
		}
	}
	if def.OnCommitFailed != nil {
		inner.OnCommitFailed = func(ctx context.Context, err error, in Args3[I1, I2, I3], _ Unit, callCtx C) error {
			return def.OnCommitFailed(ctx, err, in.In1, in.In2, in.In3, callCtx)
		}
	}
	pipeline, err := NewPipeline(runtime, unit, inner, opts...)
	if err != nil {
		return nil, err
	}
	return &Action3[U, I1, I2, I3, C]{pipeline: pipeline}, nil
}

func (a *Action3[U, I1, I2, I3, C]) Invoke(ctx context.Context, in1 I1, in2 I2, in3 I3, callCtx C) error {
	_, err := a.pipeline.Execute(ctx, Args3[I1, I2, I3]{In1: in1, In2: in2, In3: in3}, callCtx)
	return err
}

func (a *Action3[U, I1, I2, I3, C]) Name() string { return a.pipeline.Name() }

func (a *Action3[U, I1, I2, I3, C]) RequiresAuthentication() bool { return a.pipeline.RequiresAuthentication() }

func (a *Action3[U, I1, I2, I3, C]) RequiredAction() string { return a.pipeline.RequiredAction() }

func (a *Action3[U, I1, I2, I3, C]) Pipeline() *Pipeline[U, Args3[I1, I2, I3], Unit, C] { return a.pipeline }

type ActionDef4[U UnitOfWork, I1, I2, I3, I4 any, C CallContext] struct {
	Handler           any
	Stage             func(ctx context.Context, unit U, in1 I1, in2 I2, in3 I3, in4 I4, callCtx C) error
	OnCommitCompleted func(ctx context.Context, in1 I1, in2 I2, in3 I3, in4 I4, callCtx C) error
	OnCommitFailed    func(ctx context.Context, err error, in1 I1, in2 I2, in3 I3, in4 I4, callCtx C) error
}

type Action4[U UnitOfWork, I1, I2, I3, I4 any, C CallContext] struct {
	pipeline *Pipeline[U, Args4[I1, I2, I3, I4], Unit, C]
}

func NewAction4[U UnitOfWork, I1, I2, I3, I4 any, C CallContext](
	runtime *Runtime,
	unit U,
	def ActionDef4[U, I1, I2, I3, I4, C],
	opts ...IdentityOption,
) (*Action4[U, I1, I2, I3, I4, C], error) {
	if def.Stage == nil {
		return nil, ConstructionError("core: stage func is required")
	}
	handler := def.Handler
	if handler == nil {
		handler = def.Stage
	}
	inner := Definition[U, Args4[I1, I2, I3, I4], Unit, C]{Handler: handler}
	inner.Stage = func(ctx context.Context, unit U, in Args4[I1, I2, I3, I4], callCtx C) (Unit, error) {
		return Unit{}, def.Stage(ctx, unit, in.In1, in.In2, in.In3, in.In4, callCtx)
	}
	if def.OnCommitCompleted != nil {
		inner.OnCommitCompleted = func(ctx context.Context, in Args4[I1, I2, I3, I4], _ Unit, callCtx C) error {
			return def.OnCommitCompleted(ctx, in.In1, in.In2, in.In3, in.In4, callCtx)
		}
	}
	if def.OnCommitFailed != nil {
		inner.OnCommitFailed = func(ctx context.Context, err error, in Args4[I1, I2, I3, I4], _ Unit, callCtx C) error {
			return def.OnCommitFailed(ctx, err, in.In1, in.In2, in.In3, in.In4, callCtx)
		}
	}
	pipeline, err := NewPipeline(runtime, unit, inner, opts...)
	if err != nil {
		return nil, err
	}
	return &Action4[U, I1, I2, I3, I4, C]{pipeline: pipeline}, nil
}

func (a *Action4[U, I1, I2, I3, I4, C]) Invoke(ctx context.Context, in1 I1, in2 I2, in3 I3, in4 I4, callCtx C) error {
	_, err := a.pipeline.Execute(ctx, Args4[I1, I2, I3, I4]{In1: in1, In2: in2, In3: in3, In4: in4}, callCtx)
	return err
}

func (a *Action4[U, I1, I2, I3, I4, C]) Name() string { return a.pipeline.Name() }

func (a *Action4[U, I1, I2, I3, I4, C]) RequiresAuthentication() bool { return a.pipeline.RequiresAuthentication() }

func (a *Action4[U, I1, I2, I3, I4, C]) RequiredAction() string { return a.pipeline.RequiredAction() }

func (a *Action4[U, I1, I2, I3, I4, C]) Pipeline() *Pipeline[U, Args4[I1, I2, I3, I4], Unit, C] { return a.pipeline }
