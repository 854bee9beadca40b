package core

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Runtime carries the shared collaborators every pipeline is built with:
// resolved config, logging, metrics and invocation observers.
type Runtime struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	observers       []Observer
}

type RuntimeDependencies struct {
	Logger          Logger
	LoggerProvider  LoggerProvider
	MetricsRecorder MetricsRecorder
	Observers       []Observer
}

func NewRuntime(cfg Config, opts ...Option) (*Runtime, error) {
	builder := defaultRuntimeBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(err)
	}
	finalConfig.HookErrorPolicy = normalizeHookErrorPolicy(finalConfig.HookErrorPolicy)
	if builder.logSuccess != nil {
		finalConfig.LogSuccess = *builder.logSuccess
	}

	provider, logger := resolveLogger(finalConfig.ServiceName, builder.loggerProvider, builder.logger)

	return &Runtime{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		observers:       append([]Observer(nil), builder.observers...),
	}, nil
}

func (r *Runtime) Config() Config {
	if r == nil {
		return Config{}
	}
	return r.config
}

func (r *Runtime) Dependencies() RuntimeDependencies {
	if r == nil {
		return RuntimeDependencies{}
	}
	return RuntimeDependencies{
		Logger:          r.logger,
		LoggerProvider:  r.loggerProvider,
		MetricsRecorder: r.metricsRecorder,
		Observers:       append([]Observer(nil), r.observers...),
	}
}

// LoggerFor returns the named logger for a handler, falling back to the
// runtime logger when the provider has none.
func (r *Runtime) LoggerFor(name string) Logger {
	if r == nil {
		return nil
	}
	name = strings.TrimSpace(name)
	if r.loggerProvider != nil && name != "" {
		if named := r.loggerProvider.GetLogger(r.config.ServiceName + "." + name); named != nil {
			return named
		}
	}
	return r.logger
}

func mapBuildError(err error) error {
	if err == nil {
		return nil
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich
	}
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "core: runtime configuration is invalid").
		WithTextCode(ErrorBadInput)
}
