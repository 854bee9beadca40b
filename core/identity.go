package core

import (
	"reflect"
	"runtime"
	"strings"
)

// Descriptor is the dispatcher-facing identity of a handler.
type Descriptor interface {
	Name() string
	RequiresAuthentication() bool
	RequiredAction() string
}

// NamedHandler lets a handler declare its dispatch name. A blank name falls
// back to the handler's type identifier.
type NamedHandler interface {
	APIName() string
}

type Identity struct {
	name                   string
	requiresAuthentication bool
	requiredAction         string
}

type identityBuilder struct {
	name           string
	public         bool
	requiredAction string
}

type IdentityOption func(*identityBuilder)

func WithName(name string) IdentityOption {
	return func(b *identityBuilder) {
		b.name = name
	}
}

// Public marks the handler as callable without authentication.
func Public() IdentityOption {
	return func(b *identityBuilder) {
		b.public = true
	}
}

func WithRequiredAction(action string) IdentityOption {
	return func(b *identityBuilder) {
		b.requiredAction = strings.TrimSpace(action)
	}
}

// NewIdentity resolves the name for handler in order: explicit WithName,
// the handler's APIName, then its type identifier.
func NewIdentity(handler any, opts ...IdentityOption) Identity {
	builder := identityBuilder{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	name := strings.TrimSpace(builder.name)
	if name == "" {
		if named, ok := handler.(NamedHandler); ok && !isNilValue(handler) {
			name = strings.TrimSpace(named.APIName())
		}
	}
	if name == "" {
		name = TypeIdentifier(handler)
	}

	return Identity{
		name:                   name,
		requiresAuthentication: !builder.public,
		requiredAction:         builder.requiredAction,
	}
}

func (i Identity) Name() string { return i.name }

func (i Identity) RequiresAuthentication() bool { return i.requiresAuthentication }

func (i Identity) RequiredAction() string { return i.requiredAction }

// TypeIdentifier returns the bare type name of value. Pointers are
// dereferenced and generic arguments dropped. Funcs resolve to their symbol,
// and method values resolve to the receiver type.
func TypeIdentifier(value any) string {
	if value == nil {
		return ""
	}
	typ := reflect.TypeOf(value)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() == reflect.Func {
		return funcIdentifier(reflect.ValueOf(value))
	}
	name := typ.Name()
	if idx := strings.IndexByte(name, '['); idx >= 0 {
		name = name[:idx]
	}
	if name == "" {
		name = typ.String()
	}
	return name
}

func funcIdentifier(value reflect.Value) string {
	if value.IsNil() {
		return ""
	}
	fn := runtime.FuncForPC(value.Pointer())
	if fn == nil {
		return ""
	}
	symbol := stripTypeArguments(fn.Name())
	if idx := strings.LastIndexByte(symbol, '/'); idx >= 0 {
		symbol = symbol[idx+1:]
	}
	// pkg.(*Receiver).Method-fm, pkg.Receiver.Method-fm, pkg.Func
	parts := strings.Split(strings.TrimSuffix(symbol, "-fm"), ".")
	if len(parts) < 2 {
		return symbol
	}
	if len(parts) >= 3 {
		return strings.TrimSuffix(strings.TrimPrefix(parts[1], "(*"), ")")
	}
	return parts[1]
}

func stripTypeArguments(symbol string) string {
	var b strings.Builder
	depth := 0
	for _, r := range symbol {
		switch {
		case r == '[':
			depth++
		case r == ']' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isNilValue(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
