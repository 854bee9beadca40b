package command

import (
	"github.com/goliatone/go-apicall/core"
	gocmd "github.com/goliatone/go-command"
)

var (
	_ gocmd.Commander[InvocationMessage] = (*Action[InvocationMessage, core.RequestContext])(nil)
	_ core.Descriptor                    = (*Action[InvocationMessage, core.RequestContext])(nil)
)

var _ gocmd.Commander[InvocationMessage] = (*Router[core.RequestContext])(nil)
