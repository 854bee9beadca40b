package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type journalRecord struct {
	bun.BaseModel `bun:"table:apicall_invocations,alias:ai"`

	ID            string    `bun:"id,pk"`
	Name          string    `bun:"name,notnull"`
	Status        string    `bun:"status,notnull"`
	Phase         string    `bun:"phase,notnull"`
	Error         string    `bun:"error,notnull"`
	HookError     string    `bun:"hook_error,notnull"`
	CallerID      string    `bun:"caller_id,notnull"`
	CorrelationID string    `bun:"correlation_id,notnull"`
	StartedAt     time.Time `bun:"started_at,notnull"`
	DurationMS    int64     `bun:"duration_ms,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
