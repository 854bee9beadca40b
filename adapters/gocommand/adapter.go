package gocommand

import (
	"context"
	"fmt"
	"strings"

	apicommand "github.com/goliatone/go-apicall/command"
	"github.com/goliatone/go-apicall/core"
	"github.com/goliatone/go-apicall/gateway"
	apiquery "github.com/goliatone/go-apicall/query"
	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
)

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

// RegistryAdapter pairs the go-command registry with the gateway name table,
// so every subscribed handler also owns its dispatch name.
type RegistryAdapter struct {
	registry *command.Registry
	names    *gateway.Registry
}

func NewRegistryAdapter(registry *command.Registry, names *gateway.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	if names == nil {
		names = gateway.NewRegistry()
	}
	return &RegistryAdapter{registry: registry, names: names}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) Names() *gateway.Registry {
	if a == nil {
		return nil
	}
	return a.names
}

func (a *RegistryAdapter) RegisterCommand(cmd any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(cmd)
}

func (a *RegistryAdapter) AddResolver(key string, resolver command.Resolver) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.AddResolver(strings.TrimSpace(key), resolver)
}

func (a *RegistryAdapter) AddQueueResolver(key string, queueRegistry *jobqueuecommand.Registry) error {
	if queueRegistry == nil {
		return fmt.Errorf("gocommand: queue registry is required")
	}
	return a.AddResolver(key, jobqueuecommand.QueueResolver(queueRegistry))
}

func (a *RegistryAdapter) HasResolver(key string) bool {
	if a == nil || a.registry == nil {
		return false
	}
	return a.registry.HasResolver(strings.TrimSpace(key))
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

func Dispatch[T any](ctx context.Context, msg T) error {
	return commanddispatcher.Dispatch(ctx, msg)
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	return commanddispatcher.Query[T, R](ctx, msg)
}

// RegisterAction claims the action name, subscribes it to the dispatcher and
// registers it. Any failure releases what was already claimed.
func RegisterAction[M gateway.Envelope, C core.CallContext](
	adapter *RegistryAdapter,
	action *apicommand.Action[M, C],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if action == nil {
		return nil, fmt.Errorf("gocommand: action is required")
	}
	return register(adapter, action, action, func() commanddispatcher.Subscription {
		return commanddispatcher.SubscribeCommand[M](action, runnerOpts...)
	})
}

// RegisterMethod subscribes method both as a query and, through Execute, as
// a command whose result lands in the context collector.
func RegisterMethod[M gateway.Envelope, R any, C core.CallContext](
	adapter *RegistryAdapter,
	method *apiquery.Method[M, R, C],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if method == nil {
		return nil, fmt.Errorf("gocommand: method is required")
	}
	return register(adapter, method, method, func() commanddispatcher.Subscription {
		return commanddispatcher.SubscribeQuery[M, R](method, runnerOpts...)
	})
}

// RegisterRouter subscribes a name router for InvocationMessage. Names of
// routed actions are claimed through Route.
func RegisterRouter[C core.CallContext](
	adapter *RegistryAdapter,
	router *apicommand.Router[C],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if router == nil {
		return nil, fmt.Errorf("gocommand: router is required")
	}
	subscription := commanddispatcher.SubscribeCommand[apicommand.InvocationMessage](router, runnerOpts...)
	if err := adapter.RegisterCommand(router); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

// Route claims the action name and adds the action to router.
func Route[C core.CallContext](
	adapter *RegistryAdapter,
	router *apicommand.Router[C],
	action *apicommand.Action[apicommand.InvocationMessage, C],
) error {
	if adapter == nil || adapter.names == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	if router == nil || action == nil {
		return fmt.Errorf("gocommand: router and action are required")
	}
	if err := adapter.names.Register(action); err != nil {
		return err
	}
	if err := router.Handle(action); err != nil {
		adapter.names.Unregister(action.Name())
		return err
	}
	return nil
}

func register(
	adapter *RegistryAdapter,
	desc core.Descriptor,
	handler any,
	subscribe func() commanddispatcher.Subscription,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil || adapter.names == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if err := adapter.names.Register(desc); err != nil {
		return nil, err
	}
	subscription := subscribe()
	if err := adapter.RegisterCommand(handler); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		adapter.names.Unregister(desc.Name())
		return nil, err
	}
	return subscription, nil
}
