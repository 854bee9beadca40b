package gologger

import (
	"strings"

	"github.com/goliatone/go-apicall/core"

	job "github.com/goliatone/go-job"
	glog "github.com/goliatone/go-logger/glog"
)

// HandlerLogger returns the logger a runtime hands to the named handler,
// or a nop logger when runtime is nil.
func HandlerLogger(runtime *core.Runtime, name string) glog.Logger {
	if runtime == nil {
		return glog.Nop()
	}
	return glog.Ensure(runtime.LoggerFor(strings.TrimSpace(name)))
}

// JobProvider exposes the runtime's logger provider to go-job workers and
// queue drivers. When only a logger was configured it is wrapped so every
// name resolves to it.
func JobProvider(runtime *core.Runtime) job.LoggerProvider {
	if runtime == nil {
		return job.GoLoggerProvider(nopProvider{})
	}
	deps := runtime.Dependencies()
	provider, _ := glog.Resolve(runtime.Config().ServiceName, deps.LoggerProvider, deps.Logger)
	if provider == nil {
		provider = nopProvider{}
	}
	return job.GoLoggerProvider(provider)
}

// JobLogger bridges the named handler logger to the go-job contract so a
// consumer and the handler it drives log through the same sink.
func JobLogger(runtime *core.Runtime, name string) job.Logger {
	return job.GoLogger(HandlerLogger(runtime, name))
}

type nopProvider struct{}

func (nopProvider) GetLogger(string) glog.Logger { return glog.Nop() }
