package gateway

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-apicall/core"
	"github.com/goliatone/go-apicall/ratelimit"
	goerrors "github.com/goliatone/go-errors"
)

type stubAuthorizer struct {
	mu      sync.Mutex
	allowed map[string]bool
	err     error
	calls   int
	actions []string
}

func (a *stubAuthorizer) Authorize(_ context.Context, callCtx core.RequestContext, action string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	a.actions = append(a.actions, action)
	if a.err != nil {
		return false, a.err
	}
	return a.allowed[callCtx.Caller+":"+action], nil
}

func (a *stubAuthorizer) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func principalProvider() core.ContextProvider[core.RequestContext] {
	return core.ContextProviderFunc[core.RequestContext](func(_ context.Context, req core.Request) (core.RequestContext, error) {
		return core.RequestContext{Caller: req.Principal, Correlation: req.CorrelationID}, nil
	})
}

type createInvoice struct{}

func newGuard(t *testing.T, authorizer core.ContextAuthorizer[core.RequestContext], opts ...GuardOption) *Guard[core.RequestContext] {
	t.Helper()
	guard, err := NewGuard(principalProvider(), authorizer, opts...)
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}
	return guard
}

func requireCategory(t *testing.T, err error, category goerrors.Category, code int, textCode string) {
	t.Helper()
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T (%v)", err, err)
	}
	if rich.Category != category {
		t.Fatalf("expected %q category, got %q", category, rich.Category)
	}
	if rich.Code != code {
		t.Fatalf("expected %d code, got %d", code, rich.Code)
	}
	if rich.TextCode != textCode {
		t.Fatalf("expected %q text code, got %q", textCode, rich.TextCode)
	}
}

func TestGuard_AdmitsAuthorizedCaller(t *testing.T) {
	authorizer := &stubAuthorizer{allowed: map[string]bool{"user_1:invoices:write": true}}
	guard := newGuard(t, authorizer)
	desc := core.NewIdentity(createInvoice{}, core.WithRequiredAction("invoices:write"))

	callCtx, err := guard.Admit(context.Background(), desc, core.Request{Principal: "user_1", CorrelationID: "corr_1"})
	if err != nil {
		t.Fatalf("admit: %v", err)
	}
	if callCtx.Caller != "user_1" || callCtx.Correlation != "corr_1" {
		t.Fatalf("unexpected call context %#v", callCtx)
	}
	if len(authorizer.actions) != 1 || authorizer.actions[0] != "invoices:write" {
		t.Fatalf("expected required action to reach authorizer, got %#v", authorizer.actions)
	}
}

func TestGuard_RejectsBlankCaller(t *testing.T) {
	authorizer := &stubAuthorizer{}
	guard := newGuard(t, authorizer)

	_, err := guard.Admit(context.Background(), core.NewIdentity(createInvoice{}), core.Request{Principal: "  "})
	requireCategory(t, err, goerrors.CategoryAuth, http.StatusUnauthorized, core.ErrorUnauthenticated)
	if authorizer.callCount() != 0 {
		t.Fatalf("expected authorizer to be skipped for unauthenticated caller")
	}
}

func TestGuard_RejectsDeniedCaller(t *testing.T) {
	guard := newGuard(t, &stubAuthorizer{allowed: map[string]bool{}})

	_, err := guard.Admit(context.Background(), core.NewIdentity(createInvoice{}, core.WithRequiredAction("invoices:write")), core.Request{Principal: "user_2"})
	requireCategory(t, err, goerrors.CategoryAuthz, http.StatusForbidden, core.ErrorForbidden)
}

func TestGuard_PublicHandlerSkipsChecks(t *testing.T) {
	authorizer := &stubAuthorizer{}
	guard := newGuard(t, authorizer)

	callCtx, err := guard.Admit(context.Background(), core.NewIdentity(createInvoice{}, core.Public()), core.Request{CorrelationID: "corr_9"})
	if err != nil {
		t.Fatalf("admit public: %v", err)
	}
	if callCtx.Correlation != "corr_9" {
		t.Fatalf("expected context to still be resolved, got %#v", callCtx)
	}
	if authorizer.callCount() != 0 {
		t.Fatalf("expected no authorization for public handler")
	}
}

func TestGuard_ProviderErrors(t *testing.T) {
	plain := errors.New("token expired")
	guard, err := NewGuard(core.ContextProviderFunc[core.RequestContext](func(context.Context, core.Request) (core.RequestContext, error) {
		return core.RequestContext{}, plain
	}), &stubAuthorizer{})
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}
	_, err = guard.Admit(context.Background(), core.NewIdentity(createInvoice{}), core.Request{})
	requireCategory(t, err, goerrors.CategoryBadInput, http.StatusBadRequest, core.ErrorBadInput)

	envelope := gatewayUnauthenticated("token rejected", nil)
	guard, err = NewGuard(core.ContextProviderFunc[core.RequestContext](func(context.Context, core.Request) (core.RequestContext, error) {
		return core.RequestContext{}, envelope
	}), &stubAuthorizer{})
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}
	_, err = guard.Admit(context.Background(), core.NewIdentity(createInvoice{}), core.Request{})
	requireCategory(t, err, goerrors.CategoryAuth, http.StatusUnauthorized, core.ErrorUnauthenticated)
}

func TestGuard_AuthorizerError(t *testing.T) {
	guard := newGuard(t, &stubAuthorizer{err: errors.New("policy store down")})
	_, err := guard.Admit(context.Background(), core.NewIdentity(createInvoice{}), core.Request{Principal: "user_1"})
	requireCategory(t, err, goerrors.CategoryInternal, http.StatusInternalServerError, core.ErrorInternal)
}

func TestGuard_RateLimitsPerCaller(t *testing.T) {
	now := time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)
	authorizer := &stubAuthorizer{allowed: map[string]bool{"user_1:": true}}
	guard := newGuard(t, authorizer,
		WithLimiter(ratelimit.NewKeyedLimiter(1, 1, time.Minute)),
		WithClock(func() time.Time { return now }),
	)
	desc := core.NewIdentity(createInvoice{})

	if _, err := guard.Admit(context.Background(), desc, core.Request{Principal: "user_1"}); err != nil {
		t.Fatalf("first admit: %v", err)
	}
	_, err := guard.Admit(context.Background(), desc, core.Request{Principal: "user_1"})
	requireCategory(t, err, goerrors.CategoryRateLimit, http.StatusTooManyRequests, core.ErrorRateLimited)
}

func TestNewGuard_RequiresCollaborators(t *testing.T) {
	if _, err := NewGuard[core.RequestContext](nil, &stubAuthorizer{}); err == nil {
		t.Fatalf("expected missing provider error")
	}
	if _, err := NewGuard[core.RequestContext](principalProvider(), nil); err == nil {
		t.Fatalf("expected missing authorizer error")
	}
}
