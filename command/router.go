package command

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-apicall/core"
	goerrors "github.com/goliatone/go-errors"
)

// Router dispatches InvocationMessage to the action registered under its
// Name.
type Router[C core.CallContext] struct {
	mu      sync.RWMutex
	actions map[string]*Action[InvocationMessage, C]
}

func NewRouter[C core.CallContext]() *Router[C] {
	return &Router[C]{actions: map[string]*Action[InvocationMessage, C]{}}
}

func (r *Router[C]) Handle(action *Action[InvocationMessage, C]) error {
	if r == nil {
		return commandDependencyError("command: router is nil")
	}
	if action == nil {
		return commandDependencyError("command: action is required")
	}
	name := strings.TrimSpace(action.Name())
	if name == "" {
		return commandValidationError("name", "handler name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.actions[name]; exists {
		return goerrors.New(fmt.Sprintf("command: action already routed for %q", name), goerrors.CategoryConflict).
			WithCode(http.StatusConflict).
			WithTextCode(core.ErrorConflict)
	}
	r.actions[name] = action
	return nil
}

func (r *Router[C]) Execute(ctx context.Context, msg InvocationMessage) error {
	if r == nil {
		return commandDependencyError("command: router is nil")
	}
	if err := validateEnvelope(msg); err != nil {
		return err
	}
	name := strings.TrimSpace(msg.Name)
	r.mu.RLock()
	action := r.actions[name]
	r.mu.RUnlock()
	if action == nil {
		return goerrors.New(fmt.Sprintf("command: no action routed for %q", name), goerrors.CategoryNotFound).
			WithCode(http.StatusNotFound).
			WithTextCode(core.ErrorNotFound).
			WithMetadata(map[string]any{"name": name})
	}
	return action.Execute(ctx, msg)
}

func (r *Router[C]) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
