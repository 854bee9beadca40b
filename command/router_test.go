package command

import (
	"context"
	"net/http"
	"testing"

	"github.com/goliatone/go-apicall/core"
	"github.com/goliatone/go-apicall/gateway"
	goerrors "github.com/goliatone/go-errors"
)

func TestRouter_RoutesByName(t *testing.T) {
	guard, err := gateway.NewGuard(principalProvider(), allowAll())
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}
	var received []string
	router := NewRouter[core.RequestContext]()
	for _, name := range []string{"SendReminder", "CloseAccount"} {
		action, err := NewAction(core.NewIdentity(nil, core.WithName(name)), guard,
			func(_ context.Context, msg InvocationMessage, callCtx core.RequestContext) error {
				received = append(received, name+":"+callCtx.Caller+":"+msg.Parameters["id"].(string))
				return nil
			})
		if err != nil {
			t.Fatalf("new action: %v", err)
		}
		if err := router.Handle(action); err != nil {
			t.Fatalf("route %s: %v", name, err)
		}
	}

	err = router.Execute(context.Background(), InvocationMessage{
		CallEnvelope: gateway.CallEnvelope{Request: core.Request{Principal: "user_1"}},
		Name:         "CloseAccount",
		Parameters:   map[string]any{"id": "acct_1"},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(received) != 1 || received[0] != "CloseAccount:user_1:acct_1" {
		t.Fatalf("unexpected routing %#v", received)
	}
	if names := router.Names(); len(names) != 2 || names[0] != "CloseAccount" {
		t.Fatalf("unexpected names %#v", names)
	}
}

func TestRouter_Errors(t *testing.T) {
	guard, err := gateway.NewGuard(principalProvider(), allowAll())
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}
	router := NewRouter[core.RequestContext]()
	action, err := NewAction(core.NewIdentity(nil, core.WithName("Ping")), guard,
		func(context.Context, InvocationMessage, core.RequestContext) error { return nil })
	if err != nil {
		t.Fatalf("new action: %v", err)
	}
	if err := router.Handle(action); err != nil {
		t.Fatalf("route: %v", err)
	}

	var rich *goerrors.Error
	if err := router.Handle(action); !goerrors.As(err, &rich) || rich.Code != http.StatusConflict {
		t.Fatalf("expected conflict on duplicate route, got %v", err)
	}
	if err := router.Execute(context.Background(), InvocationMessage{Name: "Missing"}); !goerrors.As(err, &rich) || rich.Code != http.StatusNotFound {
		t.Fatalf("expected not found for unknown route, got %v", err)
	}
	if err := router.Execute(context.Background(), InvocationMessage{}); !goerrors.As(err, &rich) || rich.Category != goerrors.CategoryValidation {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
}
