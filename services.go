package apicall

import "github.com/goliatone/go-apicall/core"

type Config = core.Config

type Option = core.Option

type Runtime = core.Runtime

type RuntimeDependencies = core.RuntimeDependencies

type UnitOfWork = core.UnitOfWork
type UnitOfWorkFunc = core.UnitOfWorkFunc
type CallContext = core.CallContext
type RequestContext = core.RequestContext
type Request = core.Request
type Descriptor = core.Descriptor
type NamedHandler = core.NamedHandler
type Identity = core.Identity
type IdentityOption = core.IdentityOption
type Report = core.Report
type Phase = core.Phase
type Observer = core.Observer
type MetricsRecorder = core.MetricsRecorder
type HookError = core.HookError

const (
	HookErrorPolicyLog    = core.HookErrorPolicyLog
	HookErrorPolicyReturn = core.HookErrorPolicyReturn
)

var (
	WithLogger          = core.WithLogger
	WithLoggerProvider  = core.WithLoggerProvider
	WithMetricsRecorder = core.WithMetricsRecorder
	WithObserver        = core.WithObserver
	WithConfigProvider  = core.WithConfigProvider
	WithLogSuccess      = core.WithLogSuccess
	WithOptionsResolver = core.WithOptionsResolver

	WithName           = core.WithName
	Public             = core.Public
	WithRequiredAction = core.WithRequiredAction
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewRuntime(cfg Config, opts ...Option) (*Runtime, error) {
	return core.NewRuntime(cfg, opts...)
}

func NewIdentity(handler any, opts ...IdentityOption) Identity {
	return core.NewIdentity(handler, opts...)
}
