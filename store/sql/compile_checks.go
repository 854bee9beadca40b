package sqlstore

import "github.com/goliatone/go-apicall/core"

var (
	_ core.UnitOfWork = (*Session)(nil)
	_ core.Observer   = (*JournalStore)(nil)
)
