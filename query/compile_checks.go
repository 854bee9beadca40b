package query

import (
	"github.com/goliatone/go-apicall/core"
	"github.com/goliatone/go-apicall/gateway"
	gocmd "github.com/goliatone/go-command"
)

type compileCheckMessage struct {
	gateway.CallEnvelope
}

func (compileCheckMessage) Type() string { return "apicall.query.compile_check" }

var (
	_ gocmd.Querier[compileCheckMessage, int] = (*Method[compileCheckMessage, int, core.RequestContext])(nil)
	_ gocmd.Commander[compileCheckMessage]    = (*Method[compileCheckMessage, int, core.RequestContext])(nil)
	_ core.Descriptor                         = (*Method[compileCheckMessage, int, core.RequestContext])(nil)
)
