package gateway

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-apicall/core"
	goerrors "github.com/goliatone/go-errors"
)

// Registry is the dispatch table of handler descriptors keyed by name.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]core.Descriptor
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]core.Descriptor{}}
}

func (r *Registry) Register(desc core.Descriptor) error {
	if r == nil {
		return gatewayInternal("gateway: registry is nil", nil)
	}
	if desc == nil {
		return gatewayBadInput("gateway: handler descriptor is required", nil)
	}
	name := strings.TrimSpace(desc.Name())
	if name == "" {
		return gatewayBadInput("gateway: handler name is required", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = map[string]core.Descriptor{}
	}
	if _, exists := r.entries[name]; exists {
		return gatewayError(
			fmt.Sprintf("gateway: handler already registered for %q", name),
			goerrors.CategoryConflict,
			http.StatusConflict,
			core.ErrorConflict,
			map[string]any{"name": name},
		)
	}
	r.entries[name] = desc
	return nil
}

// Unregister releases name; it reports whether an entry was removed.
func (r *Registry) Unregister(name string) bool {
	if r == nil {
		return false
	}
	name = strings.TrimSpace(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; !ok {
		return false
	}
	delete(r.entries, name)
	return true
}

func (r *Registry) Lookup(name string) (core.Descriptor, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.entries[strings.TrimSpace(name)]
	return desc, ok
}

// MustLookup is Lookup returning a CategoryNotFound envelope for unknown names.
func (r *Registry) MustLookup(name string) (core.Descriptor, error) {
	desc, ok := r.Lookup(name)
	if !ok {
		return nil, gatewayError(
			fmt.Sprintf("gateway: no handler registered for %q", strings.TrimSpace(name)),
			goerrors.CategoryNotFound,
			http.StatusNotFound,
			core.ErrorNotFound,
			map[string]any{"name": strings.TrimSpace(name)},
		)
	}
	return desc, nil
}

// Names returns the registered names in lexical order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
