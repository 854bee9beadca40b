package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ Descriptor      = Identity{}
	_ Descriptor      = (*Pipeline[UnitOfWorkFunc, Args0, Unit, RequestContext])(nil)
	_ Descriptor      = (*Method2[UnitOfWorkFunc, int, string, int, RequestContext])(nil)
	_ Descriptor      = (*Action4[UnitOfWorkFunc, int, int, int, int, RequestContext])(nil)
	_ CallContext     = RequestContext{}
	_ UnitOfWork      = UnitOfWorkFunc(nil)
	_ Observer        = ObserverFunc(nil)
	_ ConfigProvider  = (*CfgxConfigProvider)(nil)
	_ OptionsResolver = GoOptionsResolver{}

	_ ContextProvider[RequestContext]   = ContextProviderFunc[RequestContext](nil)
	_ ContextAuthorizer[RequestContext] = ContextAuthorizerFunc[RequestContext](nil)

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
