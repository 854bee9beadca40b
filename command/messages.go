package command

import (
	"strings"

	"github.com/goliatone/go-apicall/gateway"
)

const TypeInvoke = "apicall.command.invoke"

// InvocationMessage addresses a registered action by name. It is the message
// deferred invocations are replayed as.
type InvocationMessage struct {
	gateway.CallEnvelope
	Name       string
	Parameters map[string]any
}

func (InvocationMessage) Type() string { return TypeInvoke }

func (m InvocationMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return commandValidationError("name", "handler name is required")
	}
	return nil
}
