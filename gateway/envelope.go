package gateway

import "github.com/goliatone/go-apicall/core"

// Envelope is a dispatchable message that carries the raw inbound request a
// Guard resolves into a call context. Type() must not depend on field values.
type Envelope interface {
	Type() string
	CallRequest() core.Request
}

// CallEnvelope is embedded by messages to satisfy CallRequest.
type CallEnvelope struct {
	Request core.Request
}

func (e CallEnvelope) CallRequest() core.Request { return e.Request }
