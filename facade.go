package apicall

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-apicall/adapters/gocommand"
	"github.com/goliatone/go-apicall/adapters/gojob"
	apicommand "github.com/goliatone/go-apicall/command"
	"github.com/goliatone/go-apicall/core"
	"github.com/goliatone/go-apicall/gateway"
	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	"github.com/goliatone/go-job/queue"
)

// Facade wires one runtime and guard to a name router, the go-command
// registry and, optionally, a go-job queue for deferred invocations.
type Facade[C core.CallContext] struct {
	runtime  *core.Runtime
	guard    *gateway.Guard[C]
	adapter  *gocommand.RegistryAdapter
	router   *apicommand.Router[C]
	enqueuer queue.Enqueuer
	consumer *gojob.Consumer
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	registry *command.Registry
	names    *gateway.Registry
	enqueuer queue.Enqueuer
	consumer *gojob.Consumer
}

func WithCommandRegistry(registry *command.Registry) FacadeOption {
	return func(options *facadeOptions) {
		options.registry = registry
	}
}

func WithNameRegistry(names *gateway.Registry) FacadeOption {
	return func(options *facadeOptions) {
		options.names = names
	}
}

// WithEnqueuer enables Defer.
func WithEnqueuer(enqueuer queue.Enqueuer) FacadeOption {
	return func(options *facadeOptions) {
		options.enqueuer = enqueuer
	}
}

// WithConsumer makes every routed action replayable from the queue.
func WithConsumer(consumer *gojob.Consumer) FacadeOption {
	return func(options *facadeOptions) {
		options.consumer = consumer
	}
}

func NewFacade[C core.CallContext](runtime *core.Runtime, guard *gateway.Guard[C], opts ...FacadeOption) (*Facade[C], error) {
	if runtime == nil {
		return nil, core.ConstructionError("apicall: runtime is required")
	}
	if guard == nil {
		return nil, core.ConstructionError("apicall: guard is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return &Facade[C]{
		runtime:  runtime,
		guard:    guard,
		adapter:  gocommand.NewRegistryAdapter(cfg.registry, cfg.names),
		router:   apicommand.NewRouter[C](),
		enqueuer: cfg.enqueuer,
		consumer: cfg.consumer,
	}, nil
}

func (f *Facade[C]) Runtime() *core.Runtime { return f.runtime }

func (f *Facade[C]) Guard() *gateway.Guard[C] { return f.guard }

func (f *Facade[C]) Adapter() *gocommand.RegistryAdapter { return f.adapter }

func (f *Facade[C]) Router() *apicommand.Router[C] { return f.router }

func (f *Facade[C]) Names() []string { return f.adapter.Names().Names() }

// Action builds an InvocationMessage action guarded by the facade guard.
func (f *Facade[C]) Action(desc core.Descriptor, invoke apicommand.Invoke[apicommand.InvocationMessage, C]) (*apicommand.Action[apicommand.InvocationMessage, C], error) {
	return apicommand.NewAction(desc, f.guard, invoke)
}

// Route claims the action name and routes InvocationMessage to it. With a
// consumer configured the name is also registered as a job handler.
func (f *Facade[C]) Route(action *apicommand.Action[apicommand.InvocationMessage, C]) error {
	if err := gocommand.Route(f.adapter, f.router, action); err != nil {
		return err
	}
	if f.consumer == nil {
		return nil
	}
	if err := f.consumer.Handle(action.Name(), gojob.JobHandlerFunc(f.replay)); err != nil {
		return fmt.Errorf("apicall: register job handler for %q: %w", action.Name(), err)
	}
	return nil
}

// Subscribe exposes the router on the go-command dispatcher.
func (f *Facade[C]) Subscribe(runnerOpts ...runner.Option) (commanddispatcher.Subscription, error) {
	return gocommand.RegisterRouter(f.adapter, f.router, runnerOpts...)
}

func (f *Facade[C]) Execute(ctx context.Context, msg apicommand.InvocationMessage) error {
	return f.router.Execute(ctx, msg)
}

// Defer queues msg for a consumer and returns the queue receipt. The request
// token is not queued, so the context provider must be able to resolve the
// caller from its principal.
func (f *Facade[C]) Defer(ctx context.Context, msg apicommand.InvocationMessage, idempotencyKey string) (queue.EnqueueReceipt, error) {
	if f.enqueuer == nil {
		return queue.EnqueueReceipt{}, core.ConstructionError("apicall: enqueuer is not configured")
	}
	name := strings.TrimSpace(msg.Name)
	if _, err := f.adapter.Names().MustLookup(name); err != nil {
		return queue.EnqueueReceipt{}, err
	}
	return gojob.Enqueue(ctx, f.enqueuer, gojob.Invocation{
		Name:           name,
		Parameters:     msg.Parameters,
		Request:        msg.CallRequest(),
		IdempotencyKey: idempotencyKey,
	})
}

func (f *Facade[C]) replay(ctx context.Context, inv gojob.Invocation) error {
	return f.router.Execute(ctx, apicommand.InvocationMessage{
		CallEnvelope: gateway.CallEnvelope{Request: inv.Request},
		Name:         inv.Name,
		Parameters:   inv.Parameters,
	})
}
